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
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"d7y.io/cacheout/purger/models"
)

const (
	mockAFDEndpoint    = "https://afd.example.com/Tenants/tenant/Partners/partner/CachePurges"
	mockAkamaiEndpoint = "https://akamai.example.com/ccu/v3/invalidate/url/production"
)

var mockBody = []byte(`{"objects":["https://example.com/a"]}`)

func TestAFD_SendPurge(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		body     []byte
		mock     func(mt *httpmock.MockTransport)
		expect   func(t *testing.T, mt *httpmock.MockTransport, result *Result)
	}{
		{
			name:     "purge is submitted",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusOK, `{"Id": 2230090}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert := assert.New(t)
				assert.Equal(models.StatusPurgeSubmitted, result.Status)
				assert.Equal("2230090", result.CdnRequestID)
			},
		},
		{
			name:     "id is matched case-insensitively",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusAccepted, `{"id": 12}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert := assert.New(t)
				assert.Equal(models.StatusPurgeSubmitted, result.Status)
				assert.Equal("12", result.CdnRequestID)
			},
		},
		{
			name:     "response without id",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusOK, `{"Description": "foo"}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert := assert.New(t)
				assert.Equal(models.StatusUnknown, result.Status)
				assert.Empty(result.CdnRequestID)
			},
		},
		{
			name:     "response with string id",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusOK, `{"Id": "foo"}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert.Equal(t, models.StatusUnknown, result.Status)
			},
		},
		{
			name:     "response can not be parsed",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusOK, `<html>`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert.Equal(t, models.StatusError, result.Status)
			},
		},
		{
			name:     "server error",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusBadGateway, ""))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert.Equal(t, models.StatusError, result.Status)
			},
		},
		{
			name:     "throttled",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusTooManyRequests, ""))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert.Equal(t, models.StatusThrottled, result.Status)
			},
		},
		{
			name:     "unauthorized",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusUnauthorized, ""))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert.Equal(t, models.StatusUnauthorized, result.Status)
			},
		},
		{
			name:     "forbidden is unknown",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewStringResponder(http.StatusForbidden, ""))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert.Equal(t, models.StatusUnknown, result.Status)
			},
		},
		{
			name:     "transport failure",
			endpoint: mockAFDEndpoint,
			body:     mockBody,
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, httpmock.NewErrorResponder(errors.New("foo")))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert.Equal(t, models.StatusError, result.Status)
			},
		},
		{
			name:     "empty endpoint",
			endpoint: "",
			body:     mockBody,
			mock:     func(mt *httpmock.MockTransport) {},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert := assert.New(t)
				assert.Equal(models.StatusError, result.Status)
				assert.Equal(0, mt.GetTotalCallCount())
			},
		},
		{
			name:     "empty body",
			endpoint: mockAFDEndpoint,
			body:     nil,
			mock:     func(mt *httpmock.MockTransport) {},
			expect: func(t *testing.T, mt *httpmock.MockTransport, result *Result) {
				assert := assert.New(t)
				assert.Equal(models.StatusError, result.Status)
				assert.Equal(0, mt.GetTotalCallCount())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mt := httpmock.NewMockTransport()
			tc.mock(mt)
			afd := NewAFD(WithTransport(mt))
			tc.expect(t, mt, afd.SendPurge(context.Background(), tc.endpoint, tc.body))
		})
	}
}

func TestAFD_SendPoll(t *testing.T) {
	pollURL := mockAFDEndpoint + "/2230090"

	tests := []struct {
		name   string
		id     string
		mock   func(mt *httpmock.MockTransport)
		expect func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus)
	}{
		{
			name: "purge rolled out",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewStringResponder(http.StatusOK, `{"Status":"RolledOut"}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusPurgeCompleted, status)
			},
		},
		{
			name: "status is matched case-insensitively",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewStringResponder(http.StatusOK, `{"status":"rolledout"}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusPurgeCompleted, status)
			},
		},
		{
			name: "purge not started",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewStringResponder(http.StatusOK, `{"Status":"NotStarted"}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusPurgeSubmitted, status)
			},
		},
		{
			name: "response without status",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewStringResponder(http.StatusOK, `{}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusUnknown, status)
			},
		},
		{
			name: "status is not a string",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewStringResponder(http.StatusOK, `{"Status":1}`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusUnknown, status)
			},
		},
		{
			name: "response can not be parsed",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewStringResponder(http.StatusOK, `[`))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusUnknown, status)
			},
		},
		{
			name: "internal server error",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewStringResponder(http.StatusInternalServerError, ""))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusError, status)
			},
		},
		{
			name: "transport failure",
			id:   "2230090",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodGet, pollURL, httpmock.NewErrorResponder(errors.New("foo")))
			},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert.Equal(t, models.StatusError, status)
			},
		},
		{
			name: "empty id",
			id:   "",
			mock: func(mt *httpmock.MockTransport) {},
			expect: func(t *testing.T, mt *httpmock.MockTransport, status models.RequestStatus) {
				assert := assert.New(t)
				assert.Equal(models.StatusError, status)
				assert.Equal(0, mt.GetTotalCallCount())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mt := httpmock.NewMockTransport()
			tc.mock(mt)
			afd := NewAFD(WithTransport(mt))
			tc.expect(t, mt, afd.SendPoll(context.Background(), mockAFDEndpoint, tc.id))
		})
	}
}

func TestAkamai_SendPurge(t *testing.T) {
	tests := []struct {
		name   string
		mock   func(mt *httpmock.MockTransport)
		expect func(t *testing.T, result *Result)
	}{
		{
			name: "purge is completed",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAkamaiEndpoint, httpmock.NewStringResponder(http.StatusCreated, `{"purgeId":"X","supportId":"Y","httpStatus":201}`))
			},
			expect: func(t *testing.T, result *Result) {
				assert := assert.New(t)
				assert.Equal(models.StatusPurgeCompleted, result.Status)
				assert.Equal("X", result.CdnRequestID)
				assert.Equal("Y", result.SupportID)
			},
		},
		{
			name: "response without support id",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAkamaiEndpoint, httpmock.NewStringResponder(http.StatusOK, `{"purgeId":"X"}`))
			},
			expect: func(t *testing.T, result *Result) {
				assert.Equal(t, models.StatusUnknown, result.Status)
			},
		},
		{
			name: "forbidden",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAkamaiEndpoint, httpmock.NewStringResponder(http.StatusForbidden, ""))
			},
			expect: func(t *testing.T, result *Result) {
				assert.Equal(t, models.StatusForbidden, result.Status)
			},
		},
		{
			name: "throttled",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAkamaiEndpoint, httpmock.NewStringResponder(http.StatusTooManyRequests, ""))
			},
			expect: func(t *testing.T, result *Result) {
				assert.Equal(t, models.StatusThrottled, result.Status)
			},
		},
		{
			name: "bad request",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAkamaiEndpoint, httpmock.NewStringResponder(http.StatusBadRequest, ""))
			},
			expect: func(t *testing.T, result *Result) {
				assert.Equal(t, models.StatusUnknown, result.Status)
			},
		},
		{
			name: "response can not be parsed",
			mock: func(mt *httpmock.MockTransport) {
				mt.RegisterResponder(http.MethodPost, mockAkamaiEndpoint, httpmock.NewStringResponder(http.StatusOK, `foo`))
			},
			expect: func(t *testing.T, result *Result) {
				assert.Equal(t, models.StatusError, result.Status)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mt := httpmock.NewMockTransport()
			tc.mock(mt)
			akamai := NewAkamai(WithTransport(mt))
			tc.expect(t, akamai.SendPurge(context.Background(), mockAkamaiEndpoint, mockBody))
		})
	}
}

func TestAkamai_IsNotPoller(t *testing.T) {
	_, ok := NewAkamai().(Poller)
	assert.False(t, ok)

	_, ok = NewAFD().(Poller)
	assert.True(t, ok)
}

func TestClient_Timeout(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder(http.MethodPost, mockAFDEndpoint, func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	afd := NewAFD(WithTransport(mt), WithTimeout(10*time.Millisecond))
	assert.Equal(t, models.StatusError, afd.SendPurge(context.Background(), mockAFDEndpoint, mockBody).Status)
}

func TestClient_RateLimit(t *testing.T) {
	assert := assert.New(t)
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder(http.MethodPost, mockAkamaiEndpoint, httpmock.NewStringResponder(http.StatusOK, `{"purgeId":"X","supportId":"Y"}`))

	akamai := NewAkamai(WithTransport(mt), WithRateLimit(0.001, 1))
	assert.Equal(models.StatusPurgeCompleted, akamai.SendPurge(context.Background(), mockAkamaiEndpoint, mockBody).Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(models.StatusError, akamai.SendPurge(ctx, mockAkamaiEndpoint, mockBody).Status)
	assert.Equal(1, mt.GetTotalCallCount())
}

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code      int
		forbidden bool
		expect    models.RequestStatus
	}{
		{code: http.StatusInternalServerError, expect: models.StatusError},
		{code: http.StatusServiceUnavailable, expect: models.StatusError},
		{code: http.StatusTooManyRequests, expect: models.StatusThrottled},
		{code: http.StatusUnauthorized, expect: models.StatusUnauthorized},
		{code: http.StatusForbidden, forbidden: true, expect: models.StatusForbidden},
		{code: http.StatusForbidden, expect: models.StatusUnknown},
		{code: http.StatusNotFound, expect: models.StatusUnknown},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expect, statusFromCode(tc.code, tc.forbidden), http.StatusText(tc.code))
	}
}
