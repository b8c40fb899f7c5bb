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
	"fmt"

	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
)

// afdDescriptionLayout formats the time of default descriptions.
const afdDescriptionLayout = "01/02/2006 15:04:05"

// afdRequestBody is the AFD cache purge payload.
type afdRequestBody struct {
	Description string   `json:"Description"`
	URLs        []string `json:"Urls"`
}

type afd struct {
	base
}

// NewAFD returns the AFD plugin.
func NewAFD(options ...Option) Plugin {
	return &afd{base: newBase(models.CDNAFD, config.DefaultAFDBaseURI, options...)}
}

func (a *afd) ResolveEndpoint(partnerRequest *models.PartnerRequest) (string, error) {
	if partnerRequest.TenantID == "" || partnerRequest.PartnerID == "" {
		return "", fmt.Errorf("%w: tenant and partner are required", ErrEndpointNotResolved)
	}

	return fmt.Sprintf("%s%s/Partners/%s/CachePurges", a.baseURI, partnerRequest.TenantID, partnerRequest.PartnerID), nil
}

func (a *afd) BuildBatches(partnerRequest *models.PartnerRequest, maxURLs int) []*models.CdnRequest {
	cdnRequests := a.buildBatches(partnerRequest, maxURLs)
	for _, cdnRequest := range cdnRequests {
		cdnRequest.TenantID = partnerRequest.TenantID
		cdnRequest.PartnerID = partnerRequest.PartnerID
		cdnRequest.Description = partnerRequest.Description
	}

	return cdnRequests
}

func (a *afd) Process(ctx context.Context, partnerRequest *models.PartnerRequest, sink Sink) error {
	return a.process(ctx, partnerRequest, sink, a.ResolveEndpoint, a.BuildBatches, a.body)
}

func (a *afd) body(cdnRequest *models.CdnRequest) ([]byte, error) {
	description := cdnRequest.Description
	if description == "" {
		description = fmt.Sprintf("CachePurge_%s", a.now().UTC().Format(afdDescriptionLayout))
	}

	return json.Marshal(&afdRequestBody{
		Description: description,
		URLs:        cdnRequest.URLs,
	})
}
