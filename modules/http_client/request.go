package http_client

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/specialistvlad/casegrid/internal/ctxlog"
	"github.com/specialistvlad/casegrid/internal/model"
)

// Request returns the case function issuing the request described by the
// case arguments: "url" (required), "method" (default GET) and "expect",
// the wanted status code (default 200).
func Request(client *http.Client) model.CaseFunc {
	return func(ctx context.Context, c *model.Case) model.Status {
		logger := ctxlog.FromContext(ctx)

		url := c.Arg("url")
		if url == "" {
			logger.Error("The http case has no url.")
			return model.Failure
		}
		method := c.Arg("method")
		if method == "" {
			method = http.MethodGet
		}
		expect := http.StatusOK
		if raw := c.Arg("expect"); raw != "" {
			code, err := strconv.Atoi(raw)
			if err != nil {
				logger.Error("Invalid expected status code.", "expect", raw, "error", err)
				return model.Failure
			}
			expect = code
		}

		logger.Info("Making HTTP request.", "method", method, "url", url)
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			logger.Error("Failed to create request.", "error", err)
			return model.Failure
		}
		resp, err := client.Do(req)
		if err != nil {
			logger.Error("Failed to execute request.", "error", err)
			return model.Failure
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		logger.Info("Received HTTP response.", "status", resp.Status)
		if resp.StatusCode != expect {
			logger.Error("Unexpected status code.", "got", resp.StatusCode, "want", expect)
			return model.Failure
		}
		return model.Success
	}
}
