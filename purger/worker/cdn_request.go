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

	"github.com/looplab/fsm"

	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/purger/models"
)

const (
	// Cdn request is waiting for a purge call.
	CdnRequestStateSubmitting = "Submitting"

	// Cdn request was accepted by the provider and is polled until it is done.
	CdnRequestStatePolling = "Polling"

	// Cdn request purged successfully.
	CdnRequestStateSucceeded = "Succeeded"

	// Cdn request ended without a successful purge.
	CdnRequestStateFailed = "Failed"
)

const (
	// Provider accepted the purge.
	CdnRequestEventAccepted = "Accepted"

	// Provider completed the purge.
	CdnRequestEventPurged = "Purged"

	// Cdn request gave up.
	CdnRequestEventAbort = "Abort"
)

// cdnRequest is a queued cdn request with its lifecycle phase.
type cdnRequest struct {
	*models.CdnRequest

	// FSM is the lifecycle phase of the cdn request.
	FSM *fsm.FSM

	// Log is the cdn request logger.
	Log *logger.SugaredLoggerOnWith
}

// newCdnRequest starts the machine in Polling when the provider already
// accepted the purge and it can be polled.
func newCdnRequest(req *models.CdnRequest, pollable bool) *cdnRequest {
	c := &cdnRequest{
		CdnRequest: req,
		Log:        logger.WithCdnRequest(req.ID, req.PartnerRequestID, req.CDN.String()),
	}

	state := CdnRequestStateSubmitting
	if pollable && req.CdnRequestID != "" {
		state = CdnRequestStatePolling
	}

	c.FSM = fsm.NewFSM(
		state,
		fsm.Events{
			{Name: CdnRequestEventAccepted, Src: []string{CdnRequestStateSubmitting}, Dst: CdnRequestStatePolling},
			{Name: CdnRequestEventPurged, Src: []string{CdnRequestStateSubmitting, CdnRequestStatePolling}, Dst: CdnRequestStateSucceeded},
			{Name: CdnRequestEventAbort, Src: []string{CdnRequestStateSubmitting, CdnRequestStatePolling}, Dst: CdnRequestStateFailed},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				c.Log.Debugf("cdn request state is %s", e.FSM.Current())
			},
		},
	)

	return c
}

// IsTerminal reports whether no further call is made for the cdn request.
func (c *cdnRequest) IsTerminal() bool {
	return c.FSM.Is(CdnRequestStateSucceeded) || c.FSM.Is(CdnRequestStateFailed)
}
