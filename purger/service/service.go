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


//go:generate mockgen -destination mocks/service_mock.go -source service.go -package mocks

package service

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/pkg/slices"
	"d7y.io/cacheout/purger/job"
	"d7y.io/cacheout/purger/metrics"
	"d7y.io/cacheout/purger/models"
	"d7y.io/cacheout/purger/storage"
	"d7y.io/cacheout/purger/types"
)

var (
	// ErrNoEnabledCDN is returned when a purge is submitted for a partner without enabled cdns.
	ErrNoEnabledCDN = errors.New("partner has no enabled cdn")

	// ErrUnknownCDN is returned when a partner enables an unsupported cdn.
	ErrUnknownCDN = errors.New("unknown cdn")

	// ErrRelativeURL is returned when a relative url can not be resolved.
	ErrRelativeURL = errors.New("urls are not absolute, but the hostname is empty")
)

type Service interface {
	CreatePartner(context.Context, types.CreatePartnerRequest) (*models.Partner, error)
	GetPartner(context.Context, string) (*models.Partner, error)
	ListPartners(context.Context) ([]*models.Partner, error)

	CreatePurge(context.Context, string, types.CreatePurgeRequest) (*models.UserRequest, error)
	GetPurgeStatus(context.Context, string) (*models.UserRequest, error)
}

type service struct {
	storage  storage.Storage
	sender   job.Sender
	validate *validator.Validate
}

// New returns a new Service instence.
func New(s storage.Storage, sender job.Sender) Service {
	return &service{
		storage:  s,
		sender:   sender,
		validate: validator.New(),
	}
}

func (s *service) CreatePartner(ctx context.Context, json types.CreatePartnerRequest) (*models.Partner, error) {
	if err := s.validate.Struct(json); err != nil {
		return nil, err
	}

	pluginIsEnabled := make(map[models.CDN]bool, len(json.PluginIsEnabled))
	for name, enabled := range json.PluginIsEnabled {
		cdn, ok := models.ParseCDN(name)
		if !ok {
			return nil, errors.Wrap(ErrUnknownCDN, name)
		}

		pluginIsEnabled[cdn] = enabled
	}

	partner := &models.Partner{
		ID:       uuid.NewString(),
		TenantID: json.TenantID,
		Name:     json.Name,
		Hostname: json.Hostname,
		CdnConfiguration: &models.CdnConfiguration{
			PluginIsEnabled: pluginIsEnabled,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.Partners().Create(ctx, partner.ID, partner); err != nil {
		return nil, errors.Wrapf(err, "create partner %s", partner.Name)
	}

	logger.WithPartner(partner.ID, partner.Name).Infof("partner created with cdns %v", partner.EnabledCDNs())
	return partner, nil
}

func (s *service) GetPartner(ctx context.Context, id string) (*models.Partner, error) {
	partner := &models.Partner{}
	if err := s.storage.Partners().Get(ctx, id, partner); err != nil {
		return nil, errors.Wrapf(err, "get partner %s", id)
	}

	return partner, nil
}

func (s *service) ListPartners(ctx context.Context) ([]*models.Partner, error) {
	docs, err := s.storage.Partners().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list partners")
	}

	partners := make([]*models.Partner, 0, len(docs))
	for _, doc := range docs {
		partner := &models.Partner{}
		if err := json.Unmarshal(doc, partner); err != nil {
			return nil, errors.Wrap(err, "decode partner")
		}

		partners = append(partners, partner)
	}

	return partners, nil
}

// CreatePurge stores a partner request per enabled cdn, then the user request
// counting the stored ones, then triggers their batch jobs. The user request is
// returned with the aggregated errors, if any.
func (s *service) CreatePurge(ctx context.Context, partnerID string, json types.CreatePurgeRequest) (*models.UserRequest, error) {
	if err := s.validate.Struct(json); err != nil {
		return nil, err
	}

	partner, err := s.GetPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	cdns := partner.EnabledCDNs()
	if len(cdns) == 0 {
		return nil, errors.Wrap(ErrNoEnabledCDN, partner.Name)
	}

	hostname := json.Hostname
	if hostname == "" {
		hostname = partner.Hostname
	}

	urls, err := resolveURLs(hostname, json.URLs)
	if err != nil {
		return nil, err
	}

	userRequest := &models.UserRequest{
		ID:             uuid.NewString(),
		PartnerID:      partner.ID,
		Description:    json.Description,
		TicketID:       json.TicketID,
		Hostname:       hostname,
		URLs:           urls,
		PluginStatuses: make(map[models.CDN]models.RequestStatus, len(cdns)),
		CreatedAt:      time.Now().UTC(),
	}

	// The user request only counts the partner requests that were stored.
	log := logger.WithUserRequest(userRequest.ID, partner.ID)
	var (
		result  *multierror.Error
		created []*models.PartnerRequest
	)
	for _, cdn := range cdns {
		partnerRequest := newPartnerRequest(cdn, partner, userRequest)
		if err := s.storage.PartnerRequests(cdn).Create(ctx, partnerRequest.ID, partnerRequest); err != nil {
			log.Errorf("create %s partner request failed: %s", cdn, err.Error())
			result = multierror.Append(result, errors.Wrapf(err, "create %s partner request", cdn))
			continue
		}

		created = append(created, partnerRequest)
		userRequest.NumTotalPartnerRequests++
		userRequest.PluginStatuses[cdn] = models.StatusPurgeSubmitted
	}

	if len(created) == 0 {
		return nil, result.ErrorOrNil()
	}

	if err := s.storage.UserRequests().Create(ctx, userRequest.ID, userRequest); err != nil {
		return nil, multierror.Append(result, errors.Wrap(err, "create user request")).ErrorOrNil()
	}

	log.Infof("purging %d urls on %d cdns", len(urls), len(created))
	metrics.UserRequestCount.Inc()

	for _, partnerRequest := range created {
		if err := job.TriggerBatch(ctx, s.sender, partnerRequest.CDN, partnerRequest.ID); err != nil {
			log.Errorf("trigger %s batch failed: %s", partnerRequest.CDN, err.Error())
			result = multierror.Append(result, errors.Wrapf(err, "trigger %s batch", partnerRequest.CDN))

			if err := s.markUntriggered(ctx, userRequest, partnerRequest.CDN); err != nil {
				log.Errorf("mark %s untriggered failed: %s", partnerRequest.CDN, err.Error())
			}
		}
	}

	return userRequest, result.ErrorOrNil()
}

// markUntriggered reports the cdn of a batch that was never enqueued as
// Unknown, the partner request will not progress.
func (s *service) markUntriggered(ctx context.Context, userRequest *models.UserRequest, cdn models.CDN) error {
	var stored models.UserRequest
	if err := s.storage.UserRequests().Update(ctx, userRequest.ID, &stored, func() error {
		if stored.PluginStatuses == nil {
			stored.PluginStatuses = map[models.CDN]models.RequestStatus{}
		}

		stored.PluginStatuses[cdn] = models.StatusUnknown
		return nil
	}); err != nil {
		return err
	}

	userRequest.PluginStatuses[cdn] = models.StatusUnknown
	return nil
}

func (s *service) GetPurgeStatus(ctx context.Context, id string) (*models.UserRequest, error) {
	userRequest := &models.UserRequest{}
	if err := s.storage.UserRequests().Get(ctx, id, userRequest); err != nil {
		return nil, errors.Wrapf(err, "get user request %s", id)
	}

	return userRequest, nil
}

func newPartnerRequest(cdn models.CDN, partner *models.Partner, userRequest *models.UserRequest) *models.PartnerRequest {
	partnerRequest := &models.PartnerRequest{
		ID:            uuid.NewString(),
		UserRequestID: userRequest.ID,
		CDN:           cdn,
		URLs:          userRequest.URLs,
	}

	if cdn == models.CDNAFD {
		partnerRequest.PartnerID = partner.Name
		partnerRequest.TenantID = partner.TenantID
		partnerRequest.Description = userRequest.Description
		if userRequest.TicketID != "" {
			partnerRequest.Description += " (" + userRequest.TicketID + ")"
		}
	}

	return partnerRequest
}

// resolveURLs makes the urls absolute against hostname and removes duplicates.
func resolveURLs(hostname string, rawURLs []string) ([]string, error) {
	var base *url.URL
	if hostname != "" {
		u, err := url.Parse(hostname)
		if err != nil {
			return nil, errors.Wrapf(err, "parse hostname %s", hostname)
		}

		if !u.IsAbs() {
			return nil, errors.Errorf("hostname %s is not absolute", hostname)
		}
		base = u
	}

	urls := make([]string, 0, len(rawURLs))
	for _, rawURL := range rawURLs {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrapf(err, "parse url %s", rawURL)
		}

		if u.IsAbs() {
			urls = append(urls, rawURL)
			continue
		}

		if base == nil {
			return nil, errors.Wrap(ErrRelativeURL, rawURL)
		}

		urls = append(urls, base.ResolveReference(u).String())
	}

	return slices.RemoveDuplicates(urls), nil
}
