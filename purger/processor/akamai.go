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

package processor

import (
	"context"
	"net/http"

	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/purger/auth"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
)

// akamai purges synchronously, it has no poll phase.
type akamai struct {
	*client
}

// NewAkamai returns the Akamai processor.
func NewAkamai(options ...Option) Processor {
	return &akamai{client: newClient(options...)}
}

// NewAkamaiFromConfig returns the Akamai processor signing requests with edgegrid.
func NewAkamaiFromConfig(cfg *config.Config) (Processor, error) {
	signer, err := auth.NewEdgeGridSigner(cfg.Akamai.ClientToken, cfg.Akamai.AccessToken, cfg.Akamai.ClientSecret)
	if err != nil {
		return nil, err
	}

	return NewAkamai(
		WithTransport(signer.Transport(http.DefaultTransport)),
		WithTimeout(cfg.Purge.RequestTimeout),
		WithRateLimit(cfg.Akamai.RateLimit.Limit, cfg.Akamai.RateLimit.Burst),
	), nil
}

func (a *akamai) CDN() models.CDN {
	return models.CDNAkamai
}

func (a *akamai) SendPurge(ctx context.Context, endpoint string, body []byte) *Result {
	if endpoint == "" || len(body) == 0 {
		logger.CDNLogger.Errorf("akamai purge has empty endpoint or body")
		return &Result{Status: models.StatusError}
	}

	code, data, err := a.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		logger.CDNLogger.Errorf("akamai purge %s failed: %s", endpoint, err.Error())
		return &Result{Status: models.StatusError}
	}

	if !isSuccess(code) {
		logger.CDNLogger.Warnf("akamai purge %s responded %d: %s", endpoint, code, string(data))
		return &Result{Status: statusFromCode(code, true)}
	}

	fields, err := decodeFields(data)
	if err != nil {
		logger.CDNLogger.Errorf("akamai purge %s response can not be parsed: %s", endpoint, err.Error())
		return &Result{Status: models.StatusError}
	}

	purgeID, err := lookupString(fields, "purgeId")
	if err != nil {
		logger.CDNLogger.Warnf("akamai purge %s response has no purge id", endpoint)
		return &Result{Status: models.StatusUnknown}
	}

	supportID, err := lookupString(fields, "supportId")
	if err != nil {
		logger.CDNLogger.Warnf("akamai purge %s response has no support id", endpoint)
		return &Result{Status: models.StatusUnknown}
	}

	return &Result{
		Status:       models.StatusPurgeCompleted,
		CdnRequestID: purgeID,
		SupportID:    supportID,
	}
}

func lookupString(fields map[string]any, name string) (string, error) {
	v, err := lookup(fields, name)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", errFieldNotFound
	}

	return s, nil
}
