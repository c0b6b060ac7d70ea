package main

import (
	"context"

	"github.com/desertthunder/tagstream/internal/repositories"
	"github.com/desertthunder/tagstream/internal/tasks"
	"github.com/urfave/cli/v3"
)

// cliNotifier prints notices to the runner output.
func (r *Runner) cliNotifier() tasks.Notifier {
	return tasks.NotifierFunc(func(level, message string) {
		switch level {
		case tasks.LevelError:
			r.writePlain("✗ %s\n", message)
		case tasks.LevelWarn:
			r.writePlain("! %s\n", message)
		default:
			r.writePlain("✓ %s\n", message)
		}
	})
}

// Upload sends a file to the catalog under --tag.
//
// A missing file or tag is reported the same way the TUI reports it, and nothing is sent.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")

	r.warnDisconnected()
	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	policy := tasks.UploadPolicy{
		PlaceholderName:    r.config.Upload.PlaceholderName,
		KeepDraftOnFailure: r.config.Upload.KeepDraftOnFailure,
	}
	if name := cmd.String("name"); name != "" {
		policy.PlaceholderName = name
	}

	uploader := tasks.NewUploader(catalog, r.cliNotifier(), r.logger, policy)
	if db, err := r.history(); err != nil {
		r.logger.Warn("upload history disabled", "error", err)
	} else {
		uploader.SetRecorder(repositories.NewUploadRepository(db))
	}

	if path != "" {
		file, err := tasks.LoadUploadFile(path)
		if err != nil {
			return err
		}
		uploader.SelectFile(file)
	}
	uploader.SetTag(cmd.String("tag"))

	progress := make(chan tasks.ProgressUpdate, 8)
	err = uploader.Submit(ctx, progress)
	close(progress)
	for update := range progress {
		r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
	}
	return err
}
