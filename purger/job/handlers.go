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

package job

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"

	logger "d7y.io/cacheout/internal/dflog"
	internaljob "d7y.io/cacheout/internal/job"
	"d7y.io/cacheout/pkg/retry"
	"d7y.io/cacheout/purger/models"
	"d7y.io/cacheout/purger/plugin"
	"d7y.io/cacheout/purger/storage"
)

const (
	flushInitBackoff = 0.2
	flushMaxBackoff  = 2
	flushMaxAttempts = 5
)

// batch splits a new partner request into cdn requests. The partner request
// is stored as batched before any cdn request is enqueued, so a completion
// never observes it without its total. Malformed jobs are dropped, store
// failures before that point are returned for redelivery.
func (h *handlers) batch(ctx context.Context, cdn models.CDN, req string) error {
	request := &BatchRequest{}
	if err := internaljob.UnmarshalRequest(req, request); err != nil {
		logger.JobLogger.Errorf("drop batch request, unmarshal err: %s, request body: %s", err.Error(), req)
		return nil
	}

	if err := validator.New().Struct(request); err != nil {
		logger.JobLogger.Errorf("drop batch request, validate failed: %s", err.Error())
		return nil
	}

	p, ok := h.plugins[cdn]
	if !ok {
		logger.JobLogger.Errorf("drop batch request, cdn %s has no plugin", cdn)
		return nil
	}

	var raw json.RawMessage
	if err := h.storage.PartnerRequests(cdn).Get(ctx, request.PartnerRequestID, &raw); err != nil {
		log := logger.WithPartnerRequest(request.PartnerRequestID, "", cdn.String())
		if errors.Is(err, storage.ErrNotFound) {
			log.Errorf("drop batch request: %s", err.Error())
			return nil
		}

		log.Errorf("get partner request failed: %s", err.Error())
		return err
	}

	partnerRequest, err := p.Validate(raw, request.PartnerRequestID)
	if err != nil {
		logger.WithPartnerRequest(request.PartnerRequestID, "", cdn.String()).Warnf("drop partner request: %s", err.Error())
		return nil
	}

	log := logger.WithPartnerRequest(partnerRequest.ID, partnerRequest.UserRequestID, cdn.String())
	collector := plugin.NewCollector()
	if err := p.Process(ctx, partnerRequest, collector); err != nil {
		log.Errorf("process partner request failed: %s", err.Error())
		return err
	}

	var stored models.PartnerRequest
	if err := h.storage.PartnerRequests(cdn).Update(ctx, partnerRequest.ID, &stored, func() error {
		if stored.Status != "" {
			return storage.ErrSkip
		}

		stored.Status = partnerRequest.Status
		stored.NumTotalCdnRequests = partnerRequest.NumTotalCdnRequests
		return nil
	}); err != nil {
		if errors.Is(err, storage.ErrSkip) {
			log.Warnf("partner request is already %s", stored.Status)
			return nil
		}

		log.Errorf("save partner request failed: %s", err.Error())
		return err
	}

	// The batch is not rebuilt on redelivery, the remaining cdn requests are
	// enqueued here.
	if _, _, err := retry.Run(ctx, flushInitBackoff, flushMaxBackoff, flushMaxAttempts, func() (any, bool, error) {
		return nil, false, collector.Flush(ctx, &sink{queue: h.queue})
	}); err != nil {
		log.Errorf("enqueue %d cdn requests failed: %s", len(collector.CdnRequests()), err.Error())
		return err
	}

	log.Infof("partner request is batched into %d cdn requests", partnerRequest.NumTotalCdnRequests)
	return nil
}

// purge runs one step of a queued cdn request. Save and enqueue failures of
// the step are returned for redelivery.
func (h *handlers) purge(ctx context.Context, cdn models.CDN, req string) error {
	cdnRequest := &models.CdnRequest{}
	if err := internaljob.UnmarshalRequest(req, cdnRequest); err != nil {
		logger.JobLogger.Errorf("drop cdn request, unmarshal err: %s, request body: %s", err.Error(), req)
		return nil
	}

	if cdnRequest.ID == "" || cdnRequest.RequestBody == "" {
		logger.JobLogger.Errorf("drop invalid cdn request: %s", req)
		return nil
	}

	if cdnRequest.CDN == "" {
		cdnRequest.CDN = cdn
	}

	return h.workers[cdn].Process(ctx, cdnRequest)
}

// complete rolls a stored cdn request up.
func (h *handlers) complete(ctx context.Context, req string) error {
	cdnRequest := &models.CdnRequest{}
	if err := internaljob.UnmarshalRequest(req, cdnRequest); err != nil {
		logger.JobLogger.Errorf("drop completion, unmarshal err: %s, request body: %s", err.Error(), req)
		return nil
	}

	h.aggregator.Complete(ctx, cdnRequest)
	return nil
}
