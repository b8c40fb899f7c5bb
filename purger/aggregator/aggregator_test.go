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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
	"d7y.io/cacheout/purger/storage"
)

var mockPurgeConfig = &config.PurgeConfig{MaxRetry: 3}

type fixture struct {
	storage storage.Storage
}

func newFixture(t *testing.T, numTotalCdnRequests int, cdns ...models.CDN) *fixture {
	ctx := context.Background()
	s := storage.NewMemory()

	pluginStatuses := map[models.CDN]models.RequestStatus{}
	for _, cdn := range cdns {
		pluginStatuses[cdn] = models.StatusPurgeSubmitted
	}

	assert.NoError(t, s.UserRequests().Create(ctx, "user", &models.UserRequest{
		ID:                      "user",
		PartnerID:               "partner",
		URLs:                    []string{"https://example.com/a"},
		NumTotalPartnerRequests: len(cdns),
		PluginStatuses:          pluginStatuses,
	}))

	for _, cdn := range cdns {
		assert.NoError(t, s.PartnerRequests(cdn).Create(ctx, partnerRequestID(cdn), &models.PartnerRequest{
			ID:                  partnerRequestID(cdn),
			UserRequestID:       "user",
			CDN:                 cdn,
			Status:              models.StatusBatchCreated,
			URLs:                []string{"https://example.com/a"},
			NumTotalCdnRequests: numTotalCdnRequests,
		}))
	}

	return &fixture{storage: s}
}

func partnerRequestID(cdn models.CDN) string {
	return fmt.Sprintf("partner-request-%s", cdn)
}

func (f *fixture) cdnRequest(cdn models.CDN, id string, status models.RequestStatus) *models.CdnRequest {
	return &models.CdnRequest{
		ID:               id,
		PartnerRequestID: partnerRequestID(cdn),
		CDN:              cdn,
		URLs:             []string{"https://example.com/a"},
		Status:           status,
	}
}

func (f *fixture) partnerRequest(t *testing.T, cdn models.CDN) *models.PartnerRequest {
	var partnerRequest models.PartnerRequest
	assert.NoError(t, f.storage.PartnerRequests(cdn).Get(context.Background(), partnerRequestID(cdn), &partnerRequest))
	return &partnerRequest
}

func (f *fixture) userRequest(t *testing.T) *models.UserRequest {
	var userRequest models.UserRequest
	assert.NoError(t, f.storage.UserRequests().Get(context.Background(), "user", &userRequest))
	return &userRequest
}

func TestAggregator_Complete(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		cdns        []models.CDN
		completions func(f *fixture) []*models.CdnRequest
		expect      func(t *testing.T, f *fixture)
	}{
		{
			name:  "partner request waits for its last cdn request",
			total: 2,
			cdns:  []models.CDN{models.CDNAFD},
			completions: func(f *fixture) []*models.CdnRequest {
				return []*models.CdnRequest{f.cdnRequest(models.CDNAFD, "foo", models.StatusPurgeCompleted)}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				partnerRequest := f.partnerRequest(t, models.CDNAFD)
				assert.Equal(1, partnerRequest.NumCompletedCdnRequests)
				assert.Equal(models.StatusBatchCreated, partnerRequest.Status)

				userRequest := f.userRequest(t)
				assert.Equal(0, userRequest.NumCompletedPartnerRequests)
				assert.Equal(models.StatusPurgeSubmitted, userRequest.PluginStatuses[models.CDNAFD])
			},
		},
		{
			name:  "every cdn request completed",
			total: 2,
			cdns:  []models.CDN{models.CDNAFD},
			completions: func(f *fixture) []*models.CdnRequest {
				return []*models.CdnRequest{
					f.cdnRequest(models.CDNAFD, "foo", models.StatusPurgeCompleted),
					f.cdnRequest(models.CDNAFD, "bar", models.StatusPurgeCompleted),
				}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				partnerRequest := f.partnerRequest(t, models.CDNAFD)
				assert.Equal(2, partnerRequest.NumCompletedCdnRequests)
				assert.Equal(models.StatusPurgeCompleted, partnerRequest.Status)
				assert.ElementsMatch([]string{"foo", "bar"}, partnerRequest.CompletedCdnRequestIDs)

				userRequest := f.userRequest(t)
				assert.Equal(1, userRequest.NumCompletedPartnerRequests)
				assert.True(userRequest.IsCompleted())
				assert.Equal(models.StatusPurgeCompleted, userRequest.PluginStatuses[models.CDNAFD])
			},
		},
		{
			name:  "error sticks",
			total: 2,
			cdns:  []models.CDN{models.CDNAFD},
			completions: func(f *fixture) []*models.CdnRequest {
				foo := f.cdnRequest(models.CDNAFD, "foo", models.StatusError)
				foo.NumTimesProcessed = 3
				return []*models.CdnRequest{foo, f.cdnRequest(models.CDNAFD, "bar", models.StatusPurgeCompleted)}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				partnerRequest := f.partnerRequest(t, models.CDNAFD)
				assert.Equal(2, partnerRequest.NumCompletedCdnRequests)
				assert.Equal(models.StatusError, partnerRequest.Status)

				userRequest := f.userRequest(t)
				assert.Equal(0, userRequest.NumCompletedPartnerRequests)
				assert.False(userRequest.IsCompleted())
				assert.Equal(models.StatusError, userRequest.PluginStatuses[models.CDNAFD])
			},
		},
		{
			name:  "duplicate completion is counted once",
			total: 2,
			cdns:  []models.CDN{models.CDNAFD},
			completions: func(f *fixture) []*models.CdnRequest {
				return []*models.CdnRequest{
					f.cdnRequest(models.CDNAFD, "foo", models.StatusPurgeCompleted),
					f.cdnRequest(models.CDNAFD, "foo", models.StatusPurgeCompleted),
				}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				partnerRequest := f.partnerRequest(t, models.CDNAFD)
				assert.Equal(1, partnerRequest.NumCompletedCdnRequests)
				assert.Equal(models.StatusBatchCreated, partnerRequest.Status)
			},
		},
		{
			name:  "in flight writes are ignored",
			total: 1,
			cdns:  []models.CDN{models.CDNAFD},
			completions: func(f *fixture) []*models.CdnRequest {
				return []*models.CdnRequest{
					f.cdnRequest(models.CDNAFD, "foo", ""),
					f.cdnRequest(models.CDNAFD, "foo", models.StatusPurgeSubmitted),
					f.cdnRequest(models.CDNAFD, "foo", models.StatusThrottled),
				}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				partnerRequest := f.partnerRequest(t, models.CDNAFD)
				assert.Equal(0, partnerRequest.NumCompletedCdnRequests)
				assert.Equal(models.StatusBatchCreated, partnerRequest.Status)
			},
		},
		{
			name:  "max retry completes the cdn request",
			total: 1,
			cdns:  []models.CDN{models.CDNAkamai},
			completions: func(f *fixture) []*models.CdnRequest {
				return []*models.CdnRequest{f.cdnRequest(models.CDNAkamai, "foo", models.StatusMaxRetry)}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				partnerRequest := f.partnerRequest(t, models.CDNAkamai)
				assert.Equal(1, partnerRequest.NumCompletedCdnRequests)
				assert.Equal(models.StatusMaxRetry, partnerRequest.Status)
				assert.Equal(models.StatusMaxRetry, f.userRequest(t).PluginStatuses[models.CDNAkamai])
			},
		},
		{
			name:  "user request waits for every cdn",
			total: 1,
			cdns:  []models.CDN{models.CDNAFD, models.CDNAkamai},
			completions: func(f *fixture) []*models.CdnRequest {
				return []*models.CdnRequest{f.cdnRequest(models.CDNAkamai, "foo", models.StatusPurgeCompleted)}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				userRequest := f.userRequest(t)
				assert.Equal(1, userRequest.NumCompletedPartnerRequests)
				assert.False(userRequest.IsCompleted())
				assert.Equal(models.StatusPurgeCompleted, userRequest.PluginStatuses[models.CDNAkamai])
				assert.Equal(models.StatusPurgeSubmitted, userRequest.PluginStatuses[models.CDNAFD])
			},
		},
		{
			name:  "user request is completed by every cdn",
			total: 1,
			cdns:  []models.CDN{models.CDNAFD, models.CDNAkamai},
			completions: func(f *fixture) []*models.CdnRequest {
				return []*models.CdnRequest{
					f.cdnRequest(models.CDNAkamai, "foo", models.StatusPurgeCompleted),
					f.cdnRequest(models.CDNAFD, "bar", models.StatusPurgeCompleted),
					f.cdnRequest(models.CDNAFD, "bar", models.StatusPurgeCompleted),
				}
			},
			expect: func(t *testing.T, f *fixture) {
				assert := assert.New(t)
				userRequest := f.userRequest(t)
				assert.Equal(2, userRequest.NumCompletedPartnerRequests)
				assert.True(userRequest.IsCompleted())
				assert.Len(userRequest.CompletedPartnerRequestIDs, 2)
			},
		},
		{
			name:  "unknown partner request is logged",
			total: 1,
			cdns:  []models.CDN{models.CDNAFD},
			completions: func(f *fixture) []*models.CdnRequest {
				req := f.cdnRequest(models.CDNAFD, "foo", models.StatusPurgeCompleted)
				req.PartnerRequestID = "unknown"
				return []*models.CdnRequest{req}
			},
			expect: func(t *testing.T, f *fixture) {
				assert.Equal(t, 0, f.partnerRequest(t, models.CDNAFD).NumCompletedCdnRequests)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.total, tc.cdns...)
			a := New(mockPurgeConfig, f.storage)
			for _, cdnRequest := range tc.completions(f) {
				a.Complete(context.Background(), cdnRequest)
			}

			tc.expect(t, f)
		})
	}
}

func TestAggregator_CompleteHealsUserRequest(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	f := newFixture(t, 1, models.CDNAFD)

	// The partner request was completed but the user request was never updated.
	assert.NoError(f.storage.PartnerRequests(models.CDNAFD).Upsert(ctx, partnerRequestID(models.CDNAFD), &models.PartnerRequest{
		ID:                      partnerRequestID(models.CDNAFD),
		UserRequestID:           "user",
		CDN:                     models.CDNAFD,
		Status:                  models.StatusPurgeCompleted,
		NumTotalCdnRequests:     1,
		NumCompletedCdnRequests: 1,
		CompletedCdnRequestIDs:  []string{"foo"},
	}))

	New(mockPurgeConfig, f.storage).Complete(ctx, f.cdnRequest(models.CDNAFD, "foo", models.StatusPurgeCompleted))

	userRequest := f.userRequest(t)
	assert.Equal(1, userRequest.NumCompletedPartnerRequests)
	assert.Equal(models.StatusPurgeCompleted, userRequest.PluginStatuses[models.CDNAFD])
	assert.Equal(1, f.partnerRequest(t, models.CDNAFD).NumCompletedCdnRequests)
}

func TestAggregator_CompleteConcurrently(t *testing.T) {
	const n = 8
	f := newFixture(t, n, models.CDNAFD)
	a := New(mockPurgeConfig, f.storage)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a.Complete(context.Background(), f.cdnRequest(models.CDNAFD, fmt.Sprintf("cdn-request-%d", i), models.StatusPurgeCompleted))
		}(i)
	}
	wg.Wait()

	assert := assert.New(t)
	partnerRequest := f.partnerRequest(t, models.CDNAFD)
	assert.Equal(n, partnerRequest.NumCompletedCdnRequests)
	assert.Len(partnerRequest.CompletedCdnRequestIDs, n)
	assert.Equal(models.StatusPurgeCompleted, partnerRequest.Status)
	assert.True(f.userRequest(t).IsCompleted())
}
