// Package client is a typed HTTP client for the ServeRest API. Every call returns
// the observed status and message alongside the decoded record; only transport and
// decode failures surface as errors, leaving status assertions to the caller.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
	"golang.org/x/time/rate"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/metrics"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/options"
	"github.com/maxiaolu1981/cretem/serverest-e2e/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HeaderRequestID carries the per-call correlation id.
const HeaderRequestID = "X-Request-ID"

// Client talks to one ServeRest deployment. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New builds a client from server options. hc may be nil.
func New(opts *options.ServerOptions, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{
		baseURL: opts.BaseURL,
		http:    hc,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// BaseURL returns the deployment root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

type call struct {
	operation     string
	method        string
	path          string
	query         url.Values
	authorization string
	body          interface{}
}

func (c *Client) newRequest(ctx context.Context, in call) (*http.Request, string, error) {
	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}
	var reader io.Reader
	if in.body != nil {
		data, err := json.Marshal(in.body)
		if err != nil {
			return nil, "", errors.WrapC(err, code.ErrConfiguration, "%s: encode request body", in.operation)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, in.method, target, reader)
	if err != nil {
		return nil, "", errors.WrapC(err, code.ErrConfiguration, "%s: build request", in.operation)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if in.authorization != "" {
		req.Header.Set("Authorization", in.authorization)
	}
	return req, requestID, nil
}

// do sends the call and returns the raw answer. Non-2xx statuses are not errors.
func (c *Client) do(ctx context.Context, in call) (*Response, error) {
	req, requestID, err := c.newRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	ctx = log.WithRequestID(ctx, requestID)
	logger := log.L(ctx)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.WrapC(err, code.ErrTransport, "%s: rate limiter", in.operation)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordRequest(in.operation, 0, time.Since(start))
		logger.Warnw("serverest request failed", "operation", in.operation, "method", in.method, "path", in.path, "error", err.Error())
		return nil, errors.WrapC(err, code.ErrTransport, "%s %s", in.method, in.path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.RecordRequest(in.operation, resp.StatusCode, elapsed)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrTransport, "%s %s: read body", in.method, in.path)
	}

	out := newResponse(resp.StatusCode, raw)
	out.RequestID = requestID
	out.Duration = elapsed
	logger.Debugw("serverest request",
		"operation", in.operation,
		"method", in.method,
		"path", in.path,
		"status", out.HTTPStatus,
		"message", out.Message,
		"duration", elapsed,
	)
	return out, nil
}

// decode fills v from the body of a successful answer.
func decode(operation string, r *Response, v interface{}) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return errors.WrapC(err, code.ErrDecodeResponse, "%s: decode HTTP %d body %q", operation, r.HTTPStatus, truncate(r.Raw, 256))
	}
	return nil
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
