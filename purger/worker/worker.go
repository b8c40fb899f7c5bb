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

//go:generate mockgen -destination mocks/worker_mock.go -source worker.go -package mocks

package worker

import (
	"context"
	"time"

	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/metrics"
	"d7y.io/cacheout/purger/models"
	"d7y.io/cacheout/purger/processor"
	"d7y.io/cacheout/purger/storage"
)

// Queue delivers cdn requests back to the worker.
type Queue interface {
	// Enqueue makes the cdn request visible again after delay.
	Enqueue(ctx context.Context, cdnRequest *models.CdnRequest, delay time.Duration) error
}

// Worker drives a queued cdn request through its purge and poll calls.
type Worker interface {
	// Process runs one step of the cdn request.
	Process(ctx context.Context, cdnRequest *models.CdnRequest) error
}

type worker struct {
	// processor of the worker cdn.
	processor processor.Processor

	// poller is set when the cdn has a poll phase.
	poller processor.Poller

	// storage persists the cdn requests.
	storage storage.Storage

	// queue re-enqueues the cdn requests.
	queue Queue

	maxRetry      int
	retryWaitTime time.Duration
}

// New returns a worker of the processor cdn.
func New(cfg *config.PurgeConfig, p processor.Processor, s storage.Storage, q Queue) Worker {
	w := &worker{
		processor:     p,
		storage:       s,
		queue:         q,
		maxRetry:      cfg.MaxRetry,
		retryWaitTime: cfg.RetryWaitTime,
	}

	if poller, ok := p.(processor.Poller); ok {
		w.poller = poller
	}

	return w
}

func (w *worker) Process(ctx context.Context, req *models.CdnRequest) error {
	c := newCdnRequest(req, w.poller != nil)
	if len(c.URLs) == 0 {
		c.Log.Warn("drop cdn request without urls")
		return nil
	}

	if c.NumTimesProcessed >= w.maxRetry {
		c.Log.Warnf("drop cdn request processed %d times, max retry is %d", c.NumTimesProcessed, w.maxRetry)
		return w.abort(ctx, c, models.StatusMaxRetry)
	}

	if c.CdnRequestID != "" && w.poller == nil {
		c.Log.Infof("drop cdn request already purged as %s", c.CdnRequestID)
		return nil
	}

	if c.FSM.Is(CdnRequestStatePolling) {
		return w.poll(ctx, c)
	}

	return w.submit(ctx, c)
}

func (w *worker) submit(ctx context.Context, c *cdnRequest) error {
	result := w.processor.SendPurge(ctx, c.Endpoint, []byte(c.RequestBody))
	metrics.PurgeCount.WithLabelValues(c.CDN.String(), result.Status.String()).Inc()
	c.Log.Infof("purge status is %s", result.Status)

	switch {
	case result.Status == models.StatusPurgeSubmitted:
		if result.CdnRequestID == "" || w.poller == nil {
			c.Log.Errorf("purge submitted without a pollable id")
			return w.abort(ctx, c, models.StatusUnknown)
		}

		c.NumTimesProcessed = 0
		c.CdnRequestID = result.CdnRequestID
		c.Status = models.StatusPurgeSubmitted
		if err := c.FSM.Event(ctx, CdnRequestEventAccepted); err != nil {
			return err
		}

		if err := w.save(ctx, c); err != nil {
			return err
		}

		return w.requeue(ctx, c)
	case result.Status == models.StatusPurgeCompleted:
		c.CdnRequestID = result.CdnRequestID
		c.SupportID = result.SupportID
		return w.succeed(ctx, c)
	case result.Status.IsRetryable():
		c.CdnRequestID = ""
		return w.retry(ctx, c, result.Status)
	}

	c.Log.Errorf("purge failed with status %s", result.Status)
	return w.abort(ctx, c, result.Status)
}

func (w *worker) poll(ctx context.Context, c *cdnRequest) error {
	status := w.poller.SendPoll(ctx, c.Endpoint, c.CdnRequestID)
	metrics.PollCount.WithLabelValues(c.CDN.String(), status.String()).Inc()
	c.Log.Debugf("poll status is %s", status)

	switch {
	case status == models.StatusPurgeCompleted:
		return w.succeed(ctx, c)
	case status == models.StatusPurgeSubmitted:
		c.Status = status
		if err := w.save(ctx, c); err != nil {
			return err
		}

		return w.requeue(ctx, c)
	case status.IsRetryable():
		return w.retry(ctx, c, status)
	}

	c.Log.Errorf("poll failed with status %s", status)
	return w.abort(ctx, c, status)
}

// retry counts a retryable failure, the cdn request is abandoned once the
// count reaches max retry.
func (w *worker) retry(ctx context.Context, c *cdnRequest, status models.RequestStatus) error {
	c.NumTimesProcessed++
	if c.NumTimesProcessed >= w.maxRetry {
		c.Log.Warnf("cdn request reached max retry %d with status %s", w.maxRetry, status)
		return w.abort(ctx, c, models.StatusMaxRetry)
	}

	c.Status = status
	metrics.CdnRequestRetryCount.WithLabelValues(c.CDN.String()).Inc()
	return w.requeue(ctx, c)
}

func (w *worker) succeed(ctx context.Context, c *cdnRequest) error {
	c.Status = models.StatusPurgeCompleted
	if err := c.FSM.Event(ctx, CdnRequestEventPurged); err != nil {
		return err
	}

	c.Log.Infof("cdn request purged as %s", c.CdnRequestID)
	metrics.CdnRequestCompletedCount.WithLabelValues(c.CDN.String(), c.Status.String()).Inc()
	return w.save(ctx, c)
}

func (w *worker) abort(ctx context.Context, c *cdnRequest, status models.RequestStatus) error {
	c.Status = status
	if err := c.FSM.Event(ctx, CdnRequestEventAbort); err != nil {
		return err
	}

	metrics.CdnRequestCompletedCount.WithLabelValues(c.CDN.String(), c.Status.String()).Inc()
	return w.save(ctx, c)
}

func (w *worker) save(ctx context.Context, c *cdnRequest) error {
	if err := w.storage.CdnRequests(c.CDN).Upsert(ctx, c.ID, c.CdnRequest); err != nil {
		c.Log.Errorf("save cdn request failed: %s", err.Error())
		return err
	}

	return nil
}

func (w *worker) requeue(ctx context.Context, c *cdnRequest) error {
	if c.Endpoint == "" {
		c.Log.Warn("cdn request has no endpoint, it is not enqueued")
		return nil
	}

	delay := w.backoff(c.NumTimesProcessed)
	if err := w.queue.Enqueue(ctx, c.CdnRequest, delay); err != nil {
		c.Log.Errorf("enqueue cdn request failed: %s", err.Error())
		return err
	}

	c.Log.Debugf("cdn request enqueued with delay %s", delay)
	return nil
}

// backoff grows linearly with the number of failures.
func (w *worker) backoff(numTimesProcessed int) time.Duration {
	if numTimesProcessed > 0 {
		return time.Duration(numTimesProcessed) * w.retryWaitTime
	}

	return w.retryWaitTime
}
