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

package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
	"d7y.io/cacheout/purger/processor"
	processormocks "d7y.io/cacheout/purger/processor/mocks"
	"d7y.io/cacheout/purger/storage"
	"d7y.io/cacheout/purger/worker/mocks"
)

const (
	mockMaxRetry      = 3
	mockRetryWaitTime = 2 * time.Second
	mockEndpoint      = "https://afd.example.com/Tenants/tenant/Partners/partner/CachePurges"
	mockBody          = `{"Description":"foo","Urls":["https://example.com/a"]}`
)

var mockPurgeConfig = &config.PurgeConfig{
	MaxRetry:      mockMaxRetry,
	RetryWaitTime: mockRetryWaitTime,
}

func mockCdnRequest(cdn models.CDN) *models.CdnRequest {
	return &models.CdnRequest{
		ID:               "foo",
		PartnerRequestID: "bar",
		CDN:              cdn,
		URLs:             []string{"https://example.com/a"},
		RequestBody:      mockBody,
		Endpoint:         mockEndpoint,
	}
}

func loadCdnRequest(t *testing.T, s storage.Storage, cdn models.CDN) *models.CdnRequest {
	var cdnRequest models.CdnRequest
	if err := s.CdnRequests(cdn).Get(context.Background(), "foo", &cdnRequest); err != nil {
		assert.ErrorIs(t, err, storage.ErrNotFound)
		return nil
	}

	return &cdnRequest
}

func TestWorker_ProcessAFD(t *testing.T) {
	tests := []struct {
		name   string
		req    func() *models.CdnRequest
		mock   func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder)
		expect func(t *testing.T, saved *models.CdnRequest, err error)
	}{
		{
			name: "cdn request without urls is dropped",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.URLs = nil
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Nil(saved)
			},
		},
		{
			name: "cdn request exhausted its retries",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.NumTimesProcessed = mockMaxRetry
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusMaxRetry, saved.Status)
				assert.Equal(mockMaxRetry, saved.NumTimesProcessed)
			},
		},
		{
			name: "purge is submitted and enqueued for polling",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.NumTimesProcessed = 2
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				gomock.InOrder(
					mp.SendPurge(gomock.Any(), mockEndpoint, []byte(mockBody)).Return(&processor.Result{Status: models.StatusPurgeSubmitted, CdnRequestID: "2230090"}).Times(1),
					mq.Enqueue(gomock.Any(), gomock.Any(), mockRetryWaitTime).Do(func(ctx context.Context, req *models.CdnRequest, delay time.Duration) {
						assert.Equal(t, "2230090", req.CdnRequestID)
						assert.Equal(t, 0, req.NumTimesProcessed)
					}).Return(nil).Times(1),
				)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusPurgeSubmitted, saved.Status)
				assert.Equal("2230090", saved.CdnRequestID)
				assert.Equal(0, saved.NumTimesProcessed)
			},
		},
		{
			name: "purge is submitted without id",
			req: func() *models.CdnRequest {
				return mockCdnRequest(models.CDNAFD)
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				mp.SendPurge(gomock.Any(), gomock.Any(), gomock.Any()).Return(&processor.Result{Status: models.StatusPurgeSubmitted}).Times(1)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusUnknown, saved.Status)
			},
		},
		{
			name: "purge is throttled",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.NumTimesProcessed = 1
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				gomock.InOrder(
					mp.SendPurge(gomock.Any(), gomock.Any(), gomock.Any()).Return(&processor.Result{Status: models.StatusThrottled}).Times(1),
					mq.Enqueue(gomock.Any(), gomock.Any(), 2*mockRetryWaitTime).Do(func(ctx context.Context, req *models.CdnRequest, delay time.Duration) {
						assert.Equal(t, models.StatusThrottled, req.Status)
						assert.Equal(t, 2, req.NumTimesProcessed)
						assert.Empty(t, req.CdnRequestID)
					}).Return(nil).Times(1),
				)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Nil(saved)
			},
		},
		{
			name: "purge failure reaches max retry",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.NumTimesProcessed = mockMaxRetry - 1
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				mp.SendPurge(gomock.Any(), gomock.Any(), gomock.Any()).Return(&processor.Result{Status: models.StatusError}).Times(1)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusMaxRetry, saved.Status)
				assert.Equal(mockMaxRetry, saved.NumTimesProcessed)
			},
		},
		{
			name: "purge is unauthorized",
			req: func() *models.CdnRequest {
				return mockCdnRequest(models.CDNAFD)
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				mp.SendPurge(gomock.Any(), gomock.Any(), gomock.Any()).Return(&processor.Result{Status: models.StatusUnauthorized}).Times(1)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusUnauthorized, saved.Status)
			},
		},
		{
			name: "poll completes the purge",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.CdnRequestID = "2230090"
				req.Status = models.StatusPurgeSubmitted
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				mp.SendPoll(gomock.Any(), mockEndpoint, "2230090").Return(models.StatusPurgeCompleted).Times(1)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusPurgeCompleted, saved.Status)
				assert.Equal("2230090", saved.CdnRequestID)
			},
		},
		{
			name: "poll keeps polling",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.CdnRequestID = "2230090"
				req.NumTimesProcessed = 2
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				gomock.InOrder(
					mp.SendPoll(gomock.Any(), mockEndpoint, "2230090").Return(models.StatusPurgeSubmitted).Times(1),
					mq.Enqueue(gomock.Any(), gomock.Any(), 2*mockRetryWaitTime).Return(nil).Times(1),
				)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusPurgeSubmitted, saved.Status)
				assert.Equal(2, saved.NumTimesProcessed)
			},
		},
		{
			name: "poll error keeps the id",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.CdnRequestID = "2230090"
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				gomock.InOrder(
					mp.SendPoll(gomock.Any(), gomock.Any(), gomock.Any()).Return(models.StatusError).Times(1),
					mq.Enqueue(gomock.Any(), gomock.Any(), mockRetryWaitTime).Do(func(ctx context.Context, req *models.CdnRequest, delay time.Duration) {
						assert.Equal(t, "2230090", req.CdnRequestID)
						assert.Equal(t, 1, req.NumTimesProcessed)
					}).Return(nil).Times(1),
				)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Nil(saved)
			},
		},
		{
			name: "cdn request without endpoint is not enqueued",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAFD)
				req.Endpoint = ""
				return req
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				mp.SendPurge(gomock.Any(), "", gomock.Any()).Return(&processor.Result{Status: models.StatusError}).Times(1)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Nil(saved)
			},
		},
		{
			name: "enqueue failed",
			req: func() *models.CdnRequest {
				return mockCdnRequest(models.CDNAFD)
			},
			mock: func(mp *processormocks.MockPollingProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				gomock.InOrder(
					mp.SendPurge(gomock.Any(), gomock.Any(), gomock.Any()).Return(&processor.Result{Status: models.StatusThrottled}).Times(1),
					mq.Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("foo")).Times(1),
				)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "foo")
				assert.Nil(saved)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()

			p := processormocks.NewMockPollingProcessor(ctl)
			q := mocks.NewMockQueue(ctl)
			s := storage.NewMemory()
			tc.mock(p.EXPECT(), q.EXPECT())

			w := New(mockPurgeConfig, p, s, q)
			err := w.Process(context.Background(), tc.req())
			tc.expect(t, loadCdnRequest(t, s, models.CDNAFD), err)
		})
	}
}

func TestWorker_ProcessAkamai(t *testing.T) {
	tests := []struct {
		name   string
		req    func() *models.CdnRequest
		mock   func(mp *processormocks.MockProcessorMockRecorder, mq *mocks.MockQueueMockRecorder)
		expect func(t *testing.T, saved *models.CdnRequest, err error)
	}{
		{
			name: "purge is completed",
			req: func() *models.CdnRequest {
				return mockCdnRequest(models.CDNAkamai)
			},
			mock: func(mp *processormocks.MockProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				mp.SendPurge(gomock.Any(), mockEndpoint, []byte(mockBody)).Return(&processor.Result{Status: models.StatusPurgeCompleted, CdnRequestID: "X", SupportID: "Y"}).Times(1)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusPurgeCompleted, saved.Status)
				assert.Equal("X", saved.CdnRequestID)
				assert.Equal("Y", saved.SupportID)
			},
		},
		{
			name: "purged cdn request is dropped",
			req: func() *models.CdnRequest {
				req := mockCdnRequest(models.CDNAkamai)
				req.CdnRequestID = "X"
				return req
			},
			mock: func(mp *processormocks.MockProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Nil(saved)
			},
		},
		{
			name: "purge is forbidden",
			req: func() *models.CdnRequest {
				return mockCdnRequest(models.CDNAkamai)
			},
			mock: func(mp *processormocks.MockProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				mp.SendPurge(gomock.Any(), gomock.Any(), gomock.Any()).Return(&processor.Result{Status: models.StatusForbidden}).Times(1)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(models.StatusForbidden, saved.Status)
			},
		},
		{
			name: "purge is retried",
			req: func() *models.CdnRequest {
				return mockCdnRequest(models.CDNAkamai)
			},
			mock: func(mp *processormocks.MockProcessorMockRecorder, mq *mocks.MockQueueMockRecorder) {
				gomock.InOrder(
					mp.SendPurge(gomock.Any(), gomock.Any(), gomock.Any()).Return(&processor.Result{Status: models.StatusError}).Times(1),
					mq.Enqueue(gomock.Any(), gomock.Any(), mockRetryWaitTime).Return(nil).Times(1),
				)
			},
			expect: func(t *testing.T, saved *models.CdnRequest, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Nil(saved)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()

			p := processormocks.NewMockProcessor(ctl)
			q := mocks.NewMockQueue(ctl)
			s := storage.NewMemory()
			tc.mock(p.EXPECT(), q.EXPECT())

			w := New(mockPurgeConfig, p, s, q)
			err := w.Process(context.Background(), tc.req())
			tc.expect(t, loadCdnRequest(t, s, models.CDNAkamai), err)
		})
	}
}

func TestWorker_Backoff(t *testing.T) {
	w := &worker{retryWaitTime: mockRetryWaitTime}
	assert.Equal(t, mockRetryWaitTime, w.backoff(0))
	assert.Equal(t, mockRetryWaitTime, w.backoff(1))
	assert.Equal(t, 3*mockRetryWaitTime, w.backoff(3))
}

func TestCdnRequest_FSM(t *testing.T) {
	assert := assert.New(t)

	c := newCdnRequest(&models.CdnRequest{ID: "foo", CDN: models.CDNAFD}, true)
	assert.True(c.FSM.Is(CdnRequestStateSubmitting))
	assert.NoError(c.FSM.Event(context.Background(), CdnRequestEventAccepted))
	assert.True(c.FSM.Is(CdnRequestStatePolling))
	assert.False(c.IsTerminal())
	assert.NoError(c.FSM.Event(context.Background(), CdnRequestEventPurged))
	assert.True(c.IsTerminal())
	assert.Error(c.FSM.Event(context.Background(), CdnRequestEventAbort))

	c = newCdnRequest(&models.CdnRequest{ID: "foo", CDN: models.CDNAFD, CdnRequestID: "bar"}, true)
	assert.True(c.FSM.Is(CdnRequestStatePolling))

	c = newCdnRequest(&models.CdnRequest{ID: "foo", CDN: models.CDNAkamai, CdnRequestID: "bar"}, false)
	assert.True(c.FSM.Is(CdnRequestStateSubmitting))
	assert.NoError(c.FSM.Event(context.Background(), CdnRequestEventPurged))
	assert.True(c.FSM.Is(CdnRequestStateSucceeded))
}
