package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagstream/internal/repositories"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/desertthunder/tagstream/internal/tasks"
	"github.com/desertthunder/tagstream/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.ParsedLevel())
	r.SetLogger(fileLogger)
	r.warnDisconnected()

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := tasks.NewBus(tasks.DefaultEventBufferSize, r.logger)
	defer bus.Close()

	engine := tasks.NewCatalogEngine(catalog, r.logger, tasks.CatalogOpts{
		DefaultTag: r.config.Catalog.DefaultTag,
		Publisher:  bus,
	})

	session := r.newSession(catalog, false)
	defer session.Stop()
	// Registered before the model subscribes so auto-play runs ahead of the list refresh.
	session.AutoPlay(bus)

	notices := ui.NewNotices(ui.DefaultNoticeBuffer)
	uploader := tasks.NewUploader(catalog, notices, r.logger, tasks.UploadPolicy{
		PlaceholderName:    r.config.Upload.PlaceholderName,
		KeepDraftOnFailure: r.config.Upload.KeepDraftOnFailure,
	})
	if db, err := r.history(); err == nil {
		uploader.SetRecorder(repositories.NewUploadRepository(db))
	}

	var status chan services.StatusMessage
	if url := r.config.Node.WebSocketURL; url != "" {
		status = make(chan services.StatusMessage, 16)
		go func() {
			if err := services.NewStatusChannel(url, r.logger).Listen(ctx, status); err != nil {
				r.logger.Warn("status channel stopped", "error", err)
			}
		}()
	}

	model := ui.NewModel(ctx, ui.Deps{
		Engine:   engine,
		Session:  session,
		Uploader: uploader,
		Events:   bus,
		Notices:  notices,
		Status:   status,
		Node:     r.config.Node,
		Dir:      cmd.String("dir"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
