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

//go:generate mockgen -destination mocks/plugin_mock.go -source plugin.go -package mocks

package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/pkg/slices"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
)

// Sink receives the cdn requests built by a plugin.
type Sink interface {
	Add(ctx context.Context, cdnRequest *models.CdnRequest) error
}

// Collector is a sink buffering cdn requests until they are flushed.
type Collector struct {
	mu          sync.Mutex
	cdnRequests []*models.CdnRequest
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(ctx context.Context, cdnRequest *models.CdnRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cdnRequests = append(c.cdnRequests, cdnRequest)
	return nil
}

// CdnRequests returns the collected cdn requests in insertion order.
func (c *Collector) CdnRequests() []*models.CdnRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*models.CdnRequest(nil), c.cdnRequests...)
}

// Flush hands every collected cdn request to sink in insertion order. It stops
// at the first failure and keeps the cdn requests that were not handed over.
func (c *Collector) Flush(ctx context.Context, sink Sink) error {
	for {
		c.mu.Lock()
		if len(c.cdnRequests) == 0 {
			c.mu.Unlock()
			return nil
		}
		cdnRequest := c.cdnRequests[0]
		c.mu.Unlock()

		if err := sink.Add(ctx, cdnRequest); err != nil {
			return err
		}

		c.mu.Lock()
		c.cdnRequests = c.cdnRequests[1:]
		c.mu.Unlock()
	}
}

// Plugin turns a partner request into batched cdn requests of a provider.
type Plugin interface {
	// CDN returns the provider of the plugin.
	CDN() models.CDN

	// Validate decodes the raw partner request, it is valid when it has an id,
	// urls and no status yet.
	Validate(raw []byte, resourceID string) (*models.PartnerRequest, error)

	// ResolveEndpoint returns the purge endpoint of the partner request.
	ResolveEndpoint(partnerRequest *models.PartnerRequest) (string, error)

	// BuildBatches splits the urls into cdn requests of at most maxURLs urls
	// and records their number in the partner request.
	BuildBatches(partnerRequest *models.PartnerRequest, maxURLs int) []*models.CdnRequest

	// Process builds the cdn requests with their endpoint and body, hands them
	// to sink and marks the partner request BatchCreated.
	Process(ctx context.Context, partnerRequest *models.PartnerRequest, sink Sink) error
}

var (
	// ErrInvalidPartnerRequest is returned by Validate.
	ErrInvalidPartnerRequest = errors.New("invalid partner request")

	// ErrEndpointNotResolved is returned when the partner request lacks endpoint parameters.
	ErrEndpointNotResolved = errors.New("endpoint not resolved")
)

// Option is a functional option for plugins.
type Option func(b *base)

// WithBatchSize sets the maximum number of urls of a cdn request.
func WithBatchSize(size int) Option {
	return func(b *base) {
		b.batchSize = size
	}
}

// WithBaseURI sets the endpoint root of the provider.
func WithBaseURI(uri string) Option {
	return func(b *base) {
		b.baseURI = uri
	}
}

// WithClock sets the clock of default descriptions.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

// New returns the plugins of every supported cdn.
func New(cfg *config.Config) map[models.CDN]Plugin {
	return map[models.CDN]Plugin{
		models.CDNAFD:    NewAFD(WithBaseURI(cfg.AFD.BaseURI), WithBatchSize(cfg.AFD.BatchSize)),
		models.CDNAkamai: NewAkamai(WithBaseURI(cfg.Akamai.BaseURI), WithBatchSize(cfg.Akamai.BatchSize)),
	}
}

// base holds what plugins share, provider specifics are passed in by the
// embedding plugin.
type base struct {
	cdn       models.CDN
	baseURI   string
	batchSize int
	now       func() time.Time
}

func newBase(cdn models.CDN, baseURI string, options ...Option) base {
	b := base{
		cdn:       cdn,
		baseURI:   baseURI,
		batchSize: config.DefaultBatchSize,
		now:       time.Now,
	}

	for _, opt := range options {
		opt(&b)
	}

	return b
}

func (b *base) CDN() models.CDN {
	return b.cdn
}

func (b *base) Validate(raw []byte, resourceID string) (*models.PartnerRequest, error) {
	var partnerRequest models.PartnerRequest
	if err := json.Unmarshal(raw, &partnerRequest); err != nil {
		logger.WithPartnerRequest(resourceID, "", b.cdn.String()).Errorf("decode partner request failed: %s", err.Error())
		return nil, fmt.Errorf("%w: %s", ErrInvalidPartnerRequest, err.Error())
	}

	switch {
	case partnerRequest.ID == "":
		return nil, fmt.Errorf("%w: %s has no id", ErrInvalidPartnerRequest, resourceID)
	case len(partnerRequest.URLs) == 0:
		return nil, fmt.Errorf("%w: %s has no urls", ErrInvalidPartnerRequest, resourceID)
	case partnerRequest.Status != "":
		return nil, fmt.Errorf("%w: %s is already %s", ErrInvalidPartnerRequest, resourceID, partnerRequest.Status)
	}

	return &partnerRequest, nil
}

// buildBatches splits the urls and fills the fields every provider shares.
func (b *base) buildBatches(partnerRequest *models.PartnerRequest, maxURLs int) []*models.CdnRequest {
	batches := slices.Batch(partnerRequest.URLs, maxURLs)
	partnerRequest.NumTotalCdnRequests = len(batches)

	cdnRequests := make([]*models.CdnRequest, 0, len(batches))
	for _, urls := range batches {
		cdnRequests = append(cdnRequests, &models.CdnRequest{
			ID:               uuid.NewString(),
			PartnerRequestID: partnerRequest.ID,
			CDN:              b.cdn,
			URLs:             urls,
		})
	}

	return cdnRequests
}

// process runs the shared processing steps, serializing bodies with body.
func (b *base) process(ctx context.Context, partnerRequest *models.PartnerRequest, sink Sink,
	resolve func(*models.PartnerRequest) (string, error),
	build func(*models.PartnerRequest, int) []*models.CdnRequest,
	body func(*models.CdnRequest) ([]byte, error)) error {
	log := logger.WithPartnerRequest(partnerRequest.ID, partnerRequest.UserRequestID, b.cdn.String())

	endpoint, err := resolve(partnerRequest)
	if err != nil {
		log.Errorf("resolve endpoint failed: %s", err.Error())
		return err
	}

	for _, cdnRequest := range build(partnerRequest, b.batchSize) {
		if len(cdnRequest.URLs) == 0 {
			continue
		}

		data, err := body(cdnRequest)
		if err != nil {
			log.Errorf("serialize cdn request %s failed: %s", cdnRequest.ID, err.Error())
			continue
		}

		cdnRequest.Endpoint = endpoint
		cdnRequest.RequestBody = string(data)
		if err := sink.Add(ctx, cdnRequest); err != nil {
			log.Errorf("add cdn request %s failed: %s", cdnRequest.ID, err.Error())
			continue
		}
	}

	partnerRequest.Status = models.StatusBatchCreated
	log.Infof("partner request is batched into %d cdn requests", partnerRequest.NumTotalCdnRequests)
	return nil
}
