package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagstream/internal/server"
	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/urfave/cli/v3"
)

// NodeServe runs the in-memory development node until interrupted.
func (r *Runner) NodeServe(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")

	node := server.NewDevNode(r.logger)
	if dir := cmd.String("seed"); dir != "" {
		added, err := node.Seed(dir, r.config.Catalog.DefaultTag)
		if err != nil {
			return err
		}
		r.logger.Info("seeded catalog", "dir", dir, "songs", added)
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	node.Register(router, r.config.Node.BasePath)

	r.logger.Info("catalog node listening", "addr", addr, "base_path", r.config.Node.BasePath)
	return server.ListenAndServe(ctx, addr, router, r.logger)
}

// NodeWatch prints status channel messages until interrupted.
func (r *Runner) NodeWatch(ctx context.Context, cmd *cli.Command) error {
	url := r.config.Node.WebSocketURL
	if url == "" {
		return fmt.Errorf("%w: node.ws_url is empty", shared.ErrMissingConfig)
	}

	out := make(chan services.StatusMessage, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- services.NewStatusChannel(url, r.logger).Listen(ctx, out)
		close(out)
	}()

	for msg := range out {
		r.writePlain("[%s] %s\n", msg.Type, msg.Text())
	}
	return <-errc
}
