package console

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/httpclient"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/types"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to one console API base URL
type Client struct {
	baseURL    string
	httpClient httpclient.Client
	logger     *logger.Logger
}

// NewClient creates a console API client rooted at baseURL
func NewClient(baseURL string, httpClient httpclient.Client, logger *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// makeRequest sends a request and decodes the response envelope.
// A non-2xx answer is returned as *httpclient.Error together with the decoded
// envelope, when the body had one.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body []byte, contentType string) (*envelope, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	headers := map[string]string{}
	if requestID := types.GetRequestID(ctx); requestID != "" {
		headers[types.HeaderRequestID] = requestID
	}
	if userID := types.GetUserID(ctx); userID != "" {
		headers[types.HeaderUserID] = userID
	}

	resp, err := c.httpClient.Send(ctx, &httpclient.Request{
		Method:      method,
		URL:         fullURL,
		Headers:     headers,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			env := &envelope{}
			if jsonErr := json.Unmarshal(httpErr.Response, env); jsonErr != nil {
				env = nil
			}
			c.logger.Errorw("console API returned error",
				"status_code", httpErr.StatusCode,
				"method", method,
				"endpoint", endpoint,
				"response_body", string(httpErr.Response))
			return env, err
		}

		c.logger.Errorw("console API request failed",
			"error", err,
			"method", method,
			"endpoint", endpoint)
		return nil, err
	}

	env := &envelope{}
	if len(resp.Body) == 0 {
		env.Success = true
		return env, nil
	}
	if err := json.Unmarshal(resp.Body, env); err != nil {
		c.logger.Errorw("failed to unmarshal response", "error", err, "body", string(resp.Body))
		return nil, ierr.WithError(err).
			WithHint("Invalid response from the console API").
			Mark(ierr.ErrHTTPClient)
	}
	return env, nil
}

func statusOf(err error) int {
	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		return httpErr.StatusCode
	}
	return http.StatusBadGateway
}
