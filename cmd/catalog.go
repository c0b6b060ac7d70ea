package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tagstream/internal/formatter"
	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/desertthunder/tagstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

// waiter is implemented by sinks whose playback outlives Play.
type waiter interface {
	Wait(ctx context.Context) error
}

// Search fetches the songs for a tag key and prints them. With --play the first result is auto-played.
//
// The tag is sent as given, including empty.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	tag := cmd.StringArg("tag")
	play := cmd.Bool("play")
	noAudio := cmd.Bool("no-audio")

	r.warnDisconnected()
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	bus := tasks.NewBus(tasks.DefaultEventBufferSize, r.logger)
	defer bus.Close()

	engine := tasks.NewCatalogEngine(catalog, r.logger, tasks.CatalogOpts{
		DefaultTag: r.config.Catalog.DefaultTag,
		Publisher:  bus,
	})

	var session *tasks.Session
	if play {
		session = r.newSession(catalog, noAudio)
		session.AutoPlay(bus)
	}

	r.logger.Info("searching catalog", "tag", tag)
	songs, err := engine.Search(ctx, tag)
	if err != nil {
		return err
	}

	out, err := formatter.Songs(cmd.String("format"), songs, formatter.NoSearchResults)
	if err != nil {
		return err
	}
	if err := r.writeBytes(out); err != nil {
		return err
	}

	// Auto-play runs on the bus dispatcher; Close waits for it.
	bus.Close()
	if session == nil || len(songs) == 0 {
		return nil
	}
	return r.followPlayback(ctx, session, noAudio)
}

// List fetches and prints the full catalog.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	r.warnDisconnected()
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	engine := tasks.NewCatalogEngine(catalog, r.logger, tasks.CatalogOpts{DefaultTag: r.config.Catalog.DefaultTag})
	songs, err := engine.FetchAllSongs(ctx)
	if err != nil {
		return err
	}

	out, err := formatter.Songs(cmd.String("format"), songs, formatter.NoSongs)
	if err != nil {
		return err
	}
	return r.writeBytes(out)
}

// Play streams a song id (or path) as typed.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	locator := cmd.StringArg("locator")
	if locator == "" {
		return fmt.Errorf("%w: song id or path", shared.ErrMissingArgument)
	}

	r.warnDisconnected()
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	noAudio := cmd.Bool("no-audio")
	session := r.newSession(catalog, noAudio)
	if err := session.PlayLocator(ctx, locator); err != nil {
		return err
	}
	return r.followPlayback(ctx, session, noAudio)
}

// followPlayback prints the current source and, unless noAudio is set, blocks until the player exits
// or ctx is canceled.
func (r *Runner) followPlayback(ctx context.Context, session *tasks.Session, noAudio bool) error {
	song, ok := session.Current()
	if !ok {
		return nil
	}
	line := song.ID
	if song.Tag.Key != "" {
		line = formatter.SongLine(song)
	}
	r.writePlain("♪ %s\n", line)
	r.writePlain("  %s\n", session.Source())

	if noAudio {
		return nil
	}
	w, ok := r.sink.(waiter)
	if !ok {
		return nil
	}
	if err := w.Wait(ctx); errors.Is(err, context.Canceled) {
		r.logger.Info("stopping playback")
		return session.Stop()
	}
	return nil
}
