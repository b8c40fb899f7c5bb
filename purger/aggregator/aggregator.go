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

package aggregator

import (
	"context"
	"errors"

	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/metrics"
	"d7y.io/cacheout/purger/models"
	"d7y.io/cacheout/purger/storage"
)

// Aggregator rolls cdn request completions up into their partner request and user request.
type Aggregator interface {
	// Complete records a written cdn request, errors are logged.
	Complete(ctx context.Context, cdnRequest *models.CdnRequest)
}

type aggregator struct {
	storage  storage.Storage
	maxRetry int
}

// New returns an aggregator.
func New(cfg *config.PurgeConfig, s storage.Storage) Aggregator {
	return &aggregator{
		storage:  s,
		maxRetry: cfg.MaxRetry,
	}
}

func (a *aggregator) Complete(ctx context.Context, cdnRequest *models.CdnRequest) {
	log := logger.WithCdnRequest(cdnRequest.ID, cdnRequest.PartnerRequestID, cdnRequest.CDN.String())
	if !a.isCompletion(cdnRequest) {
		log.Debugf("cdn request with status %q is not a completion", cdnRequest.Status)
		return
	}

	partnerRequest, err := a.completePartnerRequest(ctx, cdnRequest)
	if err != nil {
		log.Errorf("complete partner request failed: %s", err.Error())
		return
	}

	if !partnerRequest.IsCompleted() {
		return
	}

	if err := a.completeUserRequest(ctx, partnerRequest); err != nil {
		log.Errorf("complete user request %s failed: %s", partnerRequest.UserRequestID, err.Error())
	}
}

// isCompletion filters out writes of cdn requests that are still in flight.
func (a *aggregator) isCompletion(cdnRequest *models.CdnRequest) bool {
	switch {
	case cdnRequest.Status == "" || cdnRequest.Status == models.StatusPurgeSubmitted:
		return false
	case cdnRequest.Status.IsRetryable() && cdnRequest.NumTimesProcessed < a.maxRetry:
		return false
	}

	return true
}

// completePartnerRequest counts the cdn request once in its partner request
// and returns the partner request as stored.
func (a *aggregator) completePartnerRequest(ctx context.Context, cdnRequest *models.CdnRequest) (*models.PartnerRequest, error) {
	var (
		partnerRequest models.PartnerRequest
		completed      bool
	)

	log := logger.WithCdnRequest(cdnRequest.ID, cdnRequest.PartnerRequestID, cdnRequest.CDN.String())
	err := a.storage.PartnerRequests(cdnRequest.CDN).Update(ctx, cdnRequest.PartnerRequestID, &partnerRequest, func() error {
		completed = false
		if partnerRequest.Status == "" {
			log.Warn("partner request is not batched yet")
			return storage.ErrSkip
		}

		if partnerRequest.HasCompletedCdnRequest(cdnRequest.ID) {
			log.Info("cdn request is already counted")
			return storage.ErrSkip
		}

		if partnerRequest.IsCompleted() {
			log.Warnf("partner request is already completed with %d cdn requests", partnerRequest.NumCompletedCdnRequests)
			return storage.ErrSkip
		}

		partnerRequest.CompletedCdnRequestIDs = append(partnerRequest.CompletedCdnRequestIDs, cdnRequest.ID)
		partnerRequest.NumCompletedCdnRequests++

		// A failure sticks, a success only replaces the initial status.
		if cdnRequest.Status != models.StatusPurgeCompleted {
			partnerRequest.Status = cdnRequest.Status
		}

		if partnerRequest.IsCompleted() {
			if partnerRequest.Status == models.StatusBatchCreated {
				partnerRequest.Status = cdnRequest.Status
			}
			completed = true
		}

		return nil
	})
	if err != nil && !errors.Is(err, storage.ErrSkip) {
		return nil, err
	}

	if partnerRequest.Status == "" {
		return nil, errors.New("partner request is not batched")
	}

	if completed {
		log.Infof("partner request completed with status %s", partnerRequest.Status)
		metrics.PartnerRequestCompletedCount.WithLabelValues(partnerRequest.CDN.String(), partnerRequest.Status.String()).Inc()
	}

	return &partnerRequest, nil
}

// completeUserRequest publishes the partner request status in the user request
// and counts successful partner requests once. It is idempotent, so that a
// replayed completion heals a user request left behind.
func (a *aggregator) completeUserRequest(ctx context.Context, partnerRequest *models.PartnerRequest) error {
	var (
		userRequest models.UserRequest
		completed   bool
	)

	log := logger.WithPartnerRequest(partnerRequest.ID, partnerRequest.UserRequestID, partnerRequest.CDN.String())
	err := a.storage.UserRequests().Update(ctx, partnerRequest.UserRequestID, &userRequest, func() error {
		completed = false
		if userRequest.NumCompletedPartnerRequests > userRequest.NumTotalPartnerRequests {
			log.Warnf("user request counted %d of %d partner requests", userRequest.NumCompletedPartnerRequests, userRequest.NumTotalPartnerRequests)
			return storage.ErrSkip
		}

		changed := userRequest.PluginStatuses[partnerRequest.CDN] != partnerRequest.Status
		if userRequest.PluginStatuses == nil {
			userRequest.PluginStatuses = map[models.CDN]models.RequestStatus{}
		}
		userRequest.PluginStatuses[partnerRequest.CDN] = partnerRequest.Status

		if partnerRequest.Status == models.StatusPurgeCompleted &&
			!userRequest.HasCompletedPartnerRequest(partnerRequest.ID) &&
			userRequest.NumCompletedPartnerRequests < userRequest.NumTotalPartnerRequests {
			userRequest.CompletedPartnerRequestIDs = append(userRequest.CompletedPartnerRequestIDs, partnerRequest.ID)
			userRequest.NumCompletedPartnerRequests++
			completed = userRequest.IsCompleted()
			changed = true
		}

		if !changed {
			return storage.ErrSkip
		}

		return nil
	})
	if err != nil && !errors.Is(err, storage.ErrSkip) {
		return err
	}

	if completed {
		log.Info("user request completed")
		metrics.UserRequestCompletedCount.Inc()
	}

	return nil
}
