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

package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-http-utils/headers"
	"github.com/google/uuid"
)

const (
	// EdgeGridAlgorithm is the name of the signing algorithm.
	EdgeGridAlgorithm = "EG1-HMAC-SHA256"

	// EdgeGridTimestampFormat is the layout of the signing timestamp, always in UTC.
	EdgeGridTimestampFormat = "20060102T15:04:05+0000"
)

// EdgeGridOption is a functional option for the edgegrid signer.
type EdgeGridOption func(s *EdgeGridSigner)

// WithClock sets the clock of the signing timestamp.
func WithClock(now func() time.Time) EdgeGridOption {
	return func(s *EdgeGridSigner) {
		s.now = now
	}
}

// WithNonce sets the nonce generator.
func WithNonce(nonce func() string) EdgeGridOption {
	return func(s *EdgeGridSigner) {
		s.nonce = nonce
	}
}

// EdgeGridSigner signs Akamai requests with the EdgeGrid HMAC scheme.
type EdgeGridSigner struct {
	clientToken  string
	accessToken  string
	clientSecret string

	now   func() time.Time
	nonce func() string
}

// NewEdgeGridSigner returns a signer of the credentials.
func NewEdgeGridSigner(clientToken, accessToken, clientSecret string, options ...EdgeGridOption) (*EdgeGridSigner, error) {
	if clientToken == "" || accessToken == "" || clientSecret == "" {
		return nil, errors.New("edgegrid requires client token, access token and client secret")
	}

	s := &EdgeGridSigner{
		clientToken:  clientToken,
		accessToken:  accessToken,
		clientSecret: clientSecret,
		now:          time.Now,
		nonce: func() string {
			return strings.ToLower(uuid.New().String())
		},
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Authorization returns the Authorization header value of the request with the body.
func (s *EdgeGridSigner) Authorization(req *http.Request, body []byte) string {
	timestamp := s.now().UTC().Format(EdgeGridTimestampFormat)
	authData := s.authorizationData(timestamp)
	signingKey := keyedHash(timestamp, s.clientSecret)
	signature := keyedHash(requestData(req, body)+authData, signingKey)

	return fmt.Sprintf("%ssignature=%s", authData, signature)
}

func (s *EdgeGridSigner) authorizationData(timestamp string) string {
	return fmt.Sprintf("%s client_token=%s;access_token=%s;timestamp=%s;nonce=%s;",
		EdgeGridAlgorithm, s.clientToken, s.accessToken, timestamp, s.nonce())
}

// requestData is the signed part of the request, headers are never signed.
func requestData(req *http.Request, body []byte) string {
	return fmt.Sprintf("POST\t%s\t%s\t%s\t\t%s\t",
		req.URL.Scheme, req.URL.Hostname(), req.URL.RequestURI(), contentHash(body))
}

func contentHash(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func keyedHash(data, key string) string {
	if data == "" || key == "" {
		return ""
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Transport returns a round tripper signing every request.
func (s *EdgeGridSigner) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &edgeGridTransport{
		signer: s,
		base:   base,
	}
}

type edgeGridTransport struct {
	signer *EdgeGridSigner
	base   http.RoundTripper
}

func (t *edgeGridTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = b
	}

	signed := req.Clone(req.Context())
	if body != nil {
		signed.Body = io.NopCloser(bytes.NewReader(body))
		signed.ContentLength = int64(len(body))
	}

	signed.Header.Set(headers.Authorization, t.signer.Authorization(signed, body))
	return t.base.RoundTrip(signed)
}
