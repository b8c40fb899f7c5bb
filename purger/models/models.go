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

import (
	"time"

	"d7y.io/cacheout/pkg/slices"
)

// Partner is a tenant of the purge service and the cdns it purges on.
type Partner struct {
	ID               string            `json:"id"`
	TenantID         string            `json:"tenantId"`
	Name             string            `json:"name"`
	Hostname         string            `json:"hostname,omitempty"`
	CdnConfiguration *CdnConfiguration `json:"cdnConfiguration,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type CdnConfiguration struct {
	PluginIsEnabled map[CDN]bool `json:"pluginIsEnabled"`
}

// EnabledCDNs returns the enabled cdns of the partner in a stable order.
func (p *Partner) EnabledCDNs() []CDN {
	var cdns []CDN
	if p.CdnConfiguration == nil {
		return cdns
	}

	for _, cdn := range CDNs {
		if p.CdnConfiguration.PluginIsEnabled[cdn] {
			cdns = append(cdns, cdn)
		}
	}

	return cdns
}

// UserRequest is a purge submitted by a partner, fanned out to every enabled cdn.
type UserRequest struct {
	ID                          string                `json:"id"`
	PartnerID                   string                `json:"partnerId"`
	Description                 string                `json:"description,omitempty"`
	TicketID                    string                `json:"ticketId,omitempty"`
	Hostname                    string                `json:"hostname,omitempty"`
	URLs                        []string              `json:"urls"`
	NumTotalPartnerRequests     int                   `json:"numTotalPartnerRequests"`
	NumCompletedPartnerRequests int                   `json:"numCompletedPartnerRequests"`
	PluginStatuses              map[CDN]RequestStatus `json:"pluginStatuses"`
	CompletedPartnerRequestIDs  []string              `json:"completedPartnerRequestIds,omitempty"`
	CreatedAt                   time.Time             `json:"createdAt"`
}

// IsCompleted reports whether every partner request completed successfully.
func (u *UserRequest) IsCompleted() bool {
	return u.NumCompletedPartnerRequests >= u.NumTotalPartnerRequests
}

// HasCompletedPartnerRequest reports whether the partner request was already counted.
func (u *UserRequest) HasCompletedPartnerRequest(id string) bool {
	return slices.Contains(u.CompletedPartnerRequestIDs, id)
}

// PartnerRequest is the part of a user request handled by one cdn.
type PartnerRequest struct {
	ID                      string        `json:"id"`
	UserRequestID           string        `json:"userRequestId"`
	CDN                     CDN           `json:"cdn"`
	Status                  RequestStatus `json:"status,omitempty"`
	URLs                    []string      `json:"urls"`
	NumTotalCdnRequests     int           `json:"numTotalCdnRequests"`
	NumCompletedCdnRequests int           `json:"numCompletedCdnRequests"`
	CompletedCdnRequestIDs  []string      `json:"completedCdnRequestIds,omitempty"`

	// AFD.
	TenantID    string `json:"tenantId,omitempty"`
	PartnerID   string `json:"partnerId,omitempty"`
	Description string `json:"description,omitempty"`

	// Akamai.
	Network string `json:"network,omitempty"`
}

// IsCompleted reports whether every cdn request reached a terminal status.
func (p *PartnerRequest) IsCompleted() bool {
	return p.NumCompletedCdnRequests >= p.NumTotalCdnRequests
}

// HasCompletedCdnRequest reports whether the cdn request was already counted.
func (p *PartnerRequest) HasCompletedCdnRequest(id string) bool {
	return slices.Contains(p.CompletedCdnRequestIDs, id)
}

// CdnRequest is a batch of urls sent to a cdn in a single purge call.
type CdnRequest struct {
	ID                string        `json:"id"`
	PartnerRequestID  string        `json:"partnerRequestId"`
	CDN               CDN           `json:"cdn"`
	URLs              []string      `json:"urls"`
	Status            RequestStatus `json:"status,omitempty"`
	NumTimesProcessed int           `json:"numTimesProcessed"`
	RequestBody       string        `json:"requestBody"`
	Endpoint          string        `json:"endpoint"`
	CdnRequestID      string        `json:"cdnRequestId,omitempty"`

	// Akamai.
	SupportID string `json:"supportId,omitempty"`

	// AFD.
	TenantID    string `json:"tenantId,omitempty"`
	PartnerID   string `json:"partnerId,omitempty"`
	Description string `json:"description,omitempty"`
}
