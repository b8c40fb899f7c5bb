/*
 *     Copyright 2020 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:generate mockgen -destination mocks/processor_mock.go -source processor.go -package mocks

package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-http-utils/headers"
	"golang.org/x/time/rate"

	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
)

// Result is the outcome of a purge call.
type Result struct {
	// Status of the cdn request after the call.
	Status models.RequestStatus

	// CdnRequestID is the id the provider assigned to the purge.
	CdnRequestID string

	// SupportID is the provider support reference.
	SupportID string
}

// Processor submits purges to a cdn.
type Processor interface {
	// CDN returns the provider of the processor.
	CDN() models.CDN

	// SendPurge posts the serialized purge body to the endpoint.
	SendPurge(ctx context.Context, endpoint string, body []byte) *Result
}

// Poller is implemented by processors of providers with an asynchronous purge,
// whose completion is observed by polling.
type Poller interface {
	// SendPoll returns the status of the submitted purge.
	SendPoll(ctx context.Context, endpoint, cdnRequestID string) models.RequestStatus
}

// PollingProcessor is a processor of a provider with a poll phase.
type PollingProcessor interface {
	Processor
	Poller
}

// Option is a functional option for processors.
type Option func(c *client)

// WithTransport sets the round tripper of the http client.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *client) {
		c.httpClient.Transport = transport
	}
}

// WithTimeout sets the timeout of a single call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.timeout = timeout
	}
}

// WithRateLimit limits the calls of the processor, a non-positive limit disables limiting.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *client) {
		if limit <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}

		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// New returns the processors of every supported cdn, authenticated with the configured credentials.
func New(cfg *config.Config) (map[models.CDN]Processor, error) {
	afd, err := NewAFDFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	akamai, err := NewAkamaiFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return map[models.CDN]Processor{
		models.CDNAFD:    afd,
		models.CDNAkamai: akamai,
	}, nil
}

// client is the http plumbing shared by processors.
type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

func newClient(options ...Option) *client {
	c := &client{
		httpClient: &http.Client{Transport: http.DefaultTransport},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		timeout:    config.DefaultRequestTimeout,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// do sends the request and returns the status code and the response body.
func (c *client) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set(headers.Accept, "application/json")
	if body != nil {
		req.Header.Set(headers.ContentType, "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	return resp.StatusCode, data, nil
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// statusFromCode maps a failed provider response to a request status.
// forbidden is set for providers reporting permission problems with 403.
func statusFromCode(code int, forbidden bool) models.RequestStatus {
	switch {
	case code >= http.StatusInternalServerError:
		return models.StatusError
	case code == http.StatusTooManyRequests:
		return models.StatusThrottled
	case code == http.StatusUnauthorized:
		return models.StatusUnauthorized
	case code == http.StatusForbidden && forbidden:
		return models.StatusForbidden
	}

	return models.StatusUnknown
}

var errFieldNotFound = errors.New("field not found")

// decodeFields decodes a json object keeping numbers intact.
func decodeFields(data []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}

	if fields == nil {
		return nil, errors.New("response is not a json object")
	}

	return fields, nil
}

// lookup returns the value of a field, matching its name case-insensitively.
func lookup(fields map[string]any, name string) (any, error) {
	if v, ok := fields[name]; ok {
		return v, nil
	}

	for k, v := range fields {
		if strings.EqualFold(k, name) {
			return v, nil
		}
	}

	return nil, errFieldNotFound
}
