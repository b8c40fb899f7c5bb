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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/purger/auth"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
)

// afdRolledOut is the poll status of a purge that reached every edge.
const afdRolledOut = "RolledOut"

type afd struct {
	*client
}

// NewAFD returns the AFD processor.
func NewAFD(options ...Option) PollingProcessor {
	return &afd{client: newClient(options...)}
}

// NewAFDFromConfig returns the AFD processor authenticated with azure ad.
func NewAFDFromConfig(cfg *config.Config) (PollingProcessor, error) {
	transport, err := auth.NewAzureADTransport(&cfg.AFD.Auth, http.DefaultTransport)
	if err != nil {
		return nil, err
	}

	return NewAFD(
		WithTransport(transport),
		WithTimeout(cfg.Purge.RequestTimeout),
		WithRateLimit(cfg.AFD.RateLimit.Limit, cfg.AFD.RateLimit.Burst),
	), nil
}

func (a *afd) CDN() models.CDN {
	return models.CDNAFD
}

func (a *afd) SendPurge(ctx context.Context, endpoint string, body []byte) *Result {
	if endpoint == "" || len(body) == 0 {
		logger.CDNLogger.Errorf("afd purge has empty endpoint or body")
		return &Result{Status: models.StatusError}
	}

	code, data, err := a.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		logger.CDNLogger.Errorf("afd purge %s failed: %s", endpoint, err.Error())
		return &Result{Status: models.StatusError}
	}

	if !isSuccess(code) {
		logger.CDNLogger.Warnf("afd purge %s responded %d: %s", endpoint, code, string(data))
		return &Result{Status: statusFromCode(code, false)}
	}

	fields, err := decodeFields(data)
	if err != nil {
		logger.CDNLogger.Errorf("afd purge %s response can not be parsed: %s", endpoint, err.Error())
		return &Result{Status: models.StatusError}
	}

	v, err := lookup(fields, "Id")
	if err != nil {
		logger.CDNLogger.Warnf("afd purge %s response has no id", endpoint)
		return &Result{Status: models.StatusUnknown}
	}

	id, ok := v.(json.Number)
	if !ok {
		logger.CDNLogger.Warnf("afd purge %s response id %v is not a number", endpoint, v)
		return &Result{Status: models.StatusUnknown}
	}

	if _, err := id.Int64(); err != nil {
		logger.CDNLogger.Warnf("afd purge %s response id %s is not an integer", endpoint, id)
		return &Result{Status: models.StatusUnknown}
	}

	return &Result{
		Status:       models.StatusPurgeSubmitted,
		CdnRequestID: id.String(),
	}
}

func (a *afd) SendPoll(ctx context.Context, endpoint, cdnRequestID string) models.RequestStatus {
	if endpoint == "" || cdnRequestID == "" {
		logger.CDNLogger.Errorf("afd poll has empty endpoint or id")
		return models.StatusError
	}

	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(endpoint, "/"), cdnRequestID)
	code, data, err := a.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.CDNLogger.Errorf("afd poll %s failed: %s", url, err.Error())
		return models.StatusError
	}

	if !isSuccess(code) {
		logger.CDNLogger.Warnf("afd poll %s responded %d: %s", url, code, string(data))
		return statusFromCode(code, false)
	}

	fields, err := decodeFields(data)
	if err != nil {
		logger.CDNLogger.Warnf("afd poll %s response can not be parsed: %s", url, err.Error())
		return models.StatusUnknown
	}

	v, err := lookup(fields, "Status")
	if err != nil {
		logger.CDNLogger.Warnf("afd poll %s response has no status", url)
		return models.StatusUnknown
	}

	status, ok := v.(string)
	if !ok {
		logger.CDNLogger.Warnf("afd poll %s response status %v is not a string", url, v)
		return models.StatusUnknown
	}

	if strings.EqualFold(status, afdRolledOut) {
		return models.StatusPurgeCompleted
	}

	return models.StatusPurgeSubmitted
}
