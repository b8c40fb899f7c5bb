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

package models

import "strings"

// RequestStatus is the lifecycle status shared by every request level.
type RequestStatus string

const (
	StatusBatchCreated   RequestStatus = "BatchCreated"
	StatusPurgeSubmitted RequestStatus = "PurgeSubmitted"
	StatusPurgeCompleted RequestStatus = "PurgeCompleted"
	StatusThrottled      RequestStatus = "Throttled"
	StatusError          RequestStatus = "Error"
	StatusUnauthorized   RequestStatus = "Unauthorized"
	StatusForbidden      RequestStatus = "Forbidden"
	StatusUnknown        RequestStatus = "Unknown"
	StatusMaxRetry       RequestStatus = "MaxRetry"
)

func (s RequestStatus) String() string {
	return string(s)
}

// IsRetryable reports whether the provider may accept the request later.
func (s RequestStatus) IsRetryable() bool {
	return s == StatusThrottled || s == StatusError
}

// IsTerminal reports whether no further provider call is made for the request.
// PurgeSubmitted is only terminal for providers without a poll phase.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusPurgeCompleted, StatusUnauthorized, StatusForbidden, StatusUnknown, StatusMaxRetry:
		return true
	}

	return false
}

// CDN names a purge provider.
type CDN string

const (
	CDNAFD    CDN = "AFD"
	CDNAkamai CDN = "Akamai"
)

// CDNs lists every supported provider in a stable order.
var CDNs = []CDN{CDNAFD, CDNAkamai}

func (c CDN) String() string {
	return string(c)
}

// ParseCDN resolves a provider name case-insensitively.
func ParseCDN(s string) (CDN, bool) {
	for _, cdn := range CDNs {
		if strings.EqualFold(cdn.String(), s) {
			return cdn, true
		}
	}

	return "", false
}
