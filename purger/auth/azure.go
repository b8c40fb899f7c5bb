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
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"d7y.io/cacheout/purger/config"
)

// NewAzureADTransport returns a round tripper adding an Azure AD bearer token,
// obtained with the client credentials flow, to every request.
// Tokens are cached until they expire.
func NewAzureADTransport(cfg *config.AzureADConfig, base http.RoundTripper) (http.RoundTripper, error) {
	if cfg.Authority == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("azure ad requires authority, client id and client secret")
	}

	if base == nil {
		base = http.DefaultTransport
	}

	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     strings.TrimSuffix(cfg.Authority, "/") + "/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	if cfg.Resource != "" {
		credentials.EndpointParams = url.Values{"resource": {cfg.Resource}}
	}

	// The token endpoint is reached through the same base transport.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: base})
	return &oauth2.Transport{
		Source: credentials.TokenSource(ctx),
		Base:   base,
	}, nil
}
