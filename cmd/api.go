package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/boxoffice/internal/services"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/urfave/cli/v3"
)

func apiPath(cmd *cli.Command) (string, error) {
	path := strings.TrimSpace(cmd.StringArg("path"))
	if path == "" {
		return "", fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, nil
}

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path, err := apiPath(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path, err := apiPath(cmd)
	if err != nil {
		return err
	}
	data := cmd.String("data")

	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, cmd.Bool("pretty"))
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	if err := r.writeBytes(resp.Body); err != nil {
		return err
	}
	return r.writeBytes([]byte("\n"))
}
