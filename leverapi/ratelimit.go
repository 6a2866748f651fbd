package leverapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"lever2lever/migrator/appcontext"
)

const (
	// rateLimitRemainingHeader is the remaining-quota hint reported by the
	// Lever API alongside a 429.
	rateLimitRemainingHeader = "X-RateLimit-Remaining"
	// maxRateLimitRetries caps retries per logical request. The API enforces
	// a rolling quota window; without the cap a persistently exhausted quota
	// would livelock the run.
	maxRateLimitRetries = 20
)

// Response is the outcome of one logical request: the final status code and
// the fully read body.
type Response struct {
	StatusCode int
	Body       []byte
}

// backoffDelay maps the remaining-quota hint to a wait duration. Unknown or
// unparsable hints take the longest wait.
func backoffDelay(remaining string) time.Duration {
	n, err := strconv.Atoi(remaining)
	switch {
	case err == nil && n >= 4 && n <= 6:
		return 10 * time.Second
	case err == nil && n >= 2 && n < 4:
		return 20 * time.Second
	default:
		return 30 * time.Second
	}
}

// sleepContext waits for the given duration or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("backoff wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// execute sends one logical request, retrying only on 429 with the tiered
// backoff ladder. The request is rebuilt from the buffered body on each
// attempt so a retry replays identical bytes. Every non-429 outcome is
// returned to the caller without retry; an exhausted retry budget surfaces
// the last 429 response as-is.
func (c *Client) execute(
	ctx context.Context,
	method string,
	requestURL string,
	contentType string,
	body []byte,
) (*Response, error) {
	logger := appcontext.LoggerFromContext(ctx)

	for attempt := 0; ; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return nil, fmt.Errorf("error creating request: %w", err)
		}
		req.SetBasicAuth(c.apiKey, "")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("error sending request: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		closeErr := resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading response body: %w", err)
		}
		if closeErr != nil {
			return nil, HTTPBodyCloseError(closeErr)
		}

		result := &Response{StatusCode: resp.StatusCode, Body: respBody}
		if resp.StatusCode != http.StatusTooManyRequests {
			return result, nil
		}

		if attempt >= maxRateLimitRetries {
			logger.ErrorContext(
				ctx,
				"Max retry attempts for Lever API already done",
				"url", requestURL,
				"attempts", attempt+1,
			)
			return result, nil
		}

		wait := backoffDelay(resp.Header.Get(rateLimitRemainingHeader))
		logger.WarnContext(
			ctx,
			"Retrying request due to 429",
			"url", requestURL,
			"attempt", attempt+1,
			"wait", wait,
		)
		if err := c.sleep(ctx, wait); err != nil {
			return result, err
		}
	}
}

// download streams one GET response to a local file, applying the same 429
// retry policy as execute. Any non-200 final status is an error.
func (c *Client) download(ctx context.Context, requestURL string, destPath string) error {
	logger := appcontext.LoggerFromContext(ctx)

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		req.SetBasicAuth(c.apiKey, "")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return fmt.Errorf("error sending request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= maxRateLimitRetries {
				logger.ErrorContext(
					ctx,
					"Max retry attempts for Lever API already done",
					"url", requestURL,
					"attempts", attempt+1,
				)
				return HTTPUnexpectedStatusCodeError(http.StatusTooManyRequests)
			}

			wait := backoffDelay(resp.Header.Get(rateLimitRemainingHeader))
			logger.WarnContext(
				ctx,
				"Retrying download due to 429",
				"url", requestURL,
				"attempt", attempt+1,
				"wait", wait,
			)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return HTTPUnexpectedStatusCodeError(resp.StatusCode)
		}

		file, err := os.Create(destPath)
		if err != nil {
			resp.Body.Close()
			return fmt.Errorf("failed to create file %s: %w", destPath, err)
		}

		_, copyErr := io.Copy(file, resp.Body)
		closeErr := resp.Body.Close()
		fileErr := file.Close()
		if copyErr != nil {
			return fmt.Errorf("failed to write download to %s: %w", destPath, copyErr)
		}
		if closeErr != nil {
			return HTTPBodyCloseError(closeErr)
		}
		if fileErr != nil {
			return fmt.Errorf("failed to close file %s: %w", destPath, fileErr)
		}

		return nil
	}
}
