package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagstream/internal/formatter"
	"github.com/desertthunder/tagstream/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History prints recent plays, the most played songs (--top), or uploads (--uploads).
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))

	db, err := r.history()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	switch {
	case cmd.Bool("uploads"):
		uploads, err := repositories.NewUploadRepository(db).Recent(ctx, limit, cmd.Bool("failed"))
		if err != nil {
			return err
		}
		r.writePlainHeader("Uploads")
		return r.writeBytes(formatter.UploadsToText(uploads))

	case cmd.Bool("top"):
		counts, err := repositories.NewPlayRepository(db).MostPlayed(ctx, limit)
		if err != nil {
			return err
		}
		r.writePlainHeader("Most Played")
		if len(counts) == 0 {
			return r.writePlain("No plays yet.\n")
		}
		for i, c := range counts {
			r.writePlain("%d. %s (%d plays, last %s)\n", i+1, c.Title, c.Count, c.LastPlay.Local().Format("2006-01-02 15:04"))
		}
		return nil

	default:
		plays, err := repositories.NewPlayRepository(db).Recent(ctx, limit)
		if err != nil {
			return err
		}
		r.writePlainHeader("Recent Plays")
		return r.writeBytes(formatter.PlaysToText(plays))
	}
}
