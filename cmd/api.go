package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagstream/internal/services"
	"github.com/desertthunder/tagstream/internal/shared"
	"github.com/urfave/cli/v3"
)

// rawClient is a catalog that supports unchecked GETs.
type rawClient interface {
	Raw(ctx context.Context, path string) (*services.APIResponse, error)
}

// APIGet makes a direct GET request relative to the catalog root
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	compact := cmd.Bool("json")

	catalog, err := r.catalogClient()
	if err != nil {
		return err
	}
	client, ok := catalog.(rawClient)
	if !ok {
		return fmt.Errorf("%w: %s does not support raw requests", shared.ErrServiceUnavailable, catalog.Name())
	}

	r.logger.Info("GET request", "path", path)

	resp, err := client.Raw(ctx, path)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !compact)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
