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

package plugin

import (
	"context"
	"encoding/json"
	"strings"

	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
)

const (
	akamaiProductionNetwork = "production"
	akamaiStagingNetwork    = "staging"
)

// akamaiRequestBody is the fast purge payload.
type akamaiRequestBody struct {
	Objects []string `json:"objects"`
}

type akamai struct {
	base
}

// NewAkamai returns the Akamai plugin.
func NewAkamai(options ...Option) Plugin {
	return &akamai{base: newBase(models.CDNAkamai, config.DefaultAkamaiBaseURI, options...)}
}

// ResolveEndpoint targets the production network only when asked to, staging otherwise.
func (a *akamai) ResolveEndpoint(partnerRequest *models.PartnerRequest) (string, error) {
	if strings.EqualFold(partnerRequest.Network, akamaiProductionNetwork) {
		return a.baseURI + akamaiProductionNetwork, nil
	}

	return a.baseURI + akamaiStagingNetwork, nil
}

func (a *akamai) BuildBatches(partnerRequest *models.PartnerRequest, maxURLs int) []*models.CdnRequest {
	return a.buildBatches(partnerRequest, maxURLs)
}

func (a *akamai) Process(ctx context.Context, partnerRequest *models.PartnerRequest, sink Sink) error {
	return a.process(ctx, partnerRequest, sink, a.ResolveEndpoint, a.BuildBatches, a.body)
}

func (a *akamai) body(cdnRequest *models.CdnRequest) ([]byte, error) {
	return json.Marshal(&akamaiRequestBody{Objects: cdnRequest.URLs})
}
