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

//go:generate mockgen -destination mocks/job_mock.go -source job.go -package mocks

package job

import (
	"context"
	"time"

	logger "d7y.io/cacheout/internal/dflog"
	internaljob "d7y.io/cacheout/internal/job"
	"d7y.io/cacheout/purger/aggregator"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
	"d7y.io/cacheout/purger/plugin"
	"d7y.io/cacheout/purger/processor"
	"d7y.io/cacheout/purger/storage"
	"d7y.io/cacheout/purger/worker"
)

// Sender publishes jobs to the queues.
type Sender interface {
	Send(ctx context.Context, queue internaljob.Queue, name string, req any, delay time.Duration) error
}

// Job consumes the purger queues.
type Job interface {
	// Serve launches the workers of every queue.
	Serve()

	// Stop quits the workers.
	Stop()
}

type job struct {
	job    *internaljob.Job
	config *config.Config
}

// New registers the purger jobs of every cdn.
func New(cfg *config.Config, j *internaljob.Job, s storage.Storage, plugins map[models.CDN]plugin.Plugin, processors map[models.CDN]processor.Processor) (Job, error) {
	h := newHandlers(cfg, j, s, plugins, processors)
	if err := j.RegisterJob(h.namedJobFuncs()); err != nil {
		logger.JobLogger.Errorf("register jobs failed: %s", err.Error())
		return nil, err
	}

	return &job{
		job:    j,
		config: cfg,
	}, nil
}

func (j *job) Serve() {
	j.launch("batch_worker", j.config.Job.BatchWorkers, internaljob.BatchQueue)
	j.launch("purge_worker", j.config.Job.PurgeWorkers, internaljob.PurgeQueue)
	j.launch("completion_worker", j.config.Job.CompletionWorkers, internaljob.CompletionQueue)
}

func (j *job) launch(consumerTag string, concurrency int, queue internaljob.Queue) {
	go func() {
		logger.JobLogger.Infof("ready to launch %d worker(s) on %s queue", concurrency, queue)
		if err := j.job.LaunchWorker(consumerTag, concurrency, queue); err != nil {
			logger.JobLogger.Fatalf("%s queue worker error: %s", queue, err.Error())
		}
	}()
}

func (j *job) Stop() {
	j.job.Stop()
}

// BatchRequest is the argument of batch jobs.
type BatchRequest struct {
	PartnerRequestID string `json:"partnerRequestId" validate:"required"`
}

// TriggerBatch enqueues the batch job of the partner request.
func TriggerBatch(ctx context.Context, sender Sender, cdn models.CDN, partnerRequestID string) error {
	return sender.Send(ctx, internaljob.BatchQueue, internaljob.JobName(internaljob.BatchJobPrefix, cdn.String()), &BatchRequest{
		PartnerRequestID: partnerRequestID,
	}, 0)
}

type queue struct {
	sender Sender
}

// NewQueue returns the queue of purge jobs.
func NewQueue(sender Sender) worker.Queue {
	return &queue{sender: sender}
}

func (q *queue) Enqueue(ctx context.Context, cdnRequest *models.CdnRequest, delay time.Duration) error {
	return q.sender.Send(ctx, internaljob.PurgeQueue, internaljob.JobName(internaljob.PurgeJobPrefix, cdnRequest.CDN.String()), cdnRequest, delay)
}

// sink enqueues the cdn requests built by plugins for their first purge call.
type sink struct {
	queue worker.Queue
}

func (s *sink) Add(ctx context.Context, cdnRequest *models.CdnRequest) error {
	return s.queue.Enqueue(ctx, cdnRequest, 0)
}

// NewCompletionObserver returns the change feed of cdn requests. Stored cdn
// requests are sent to the completion queue, except the ones still pending
// at the provider.
func NewCompletionObserver(sender Sender) storage.ObserveFunc {
	return func(ctx context.Context, doc any) {
		cdnRequest, ok := doc.(*models.CdnRequest)
		if !ok {
			logger.JobLogger.Errorf("observed document %T is not a cdn request", doc)
			return
		}

		if cdnRequest.Status == "" || cdnRequest.Status == models.StatusPurgeSubmitted {
			return
		}

		if err := sender.Send(ctx, internaljob.CompletionQueue, internaljob.JobName(internaljob.CompleteJobPrefix, cdnRequest.CDN.String()), cdnRequest, 0); err != nil {
			logger.WithCdnRequest(cdnRequest.ID, cdnRequest.PartnerRequestID, cdnRequest.CDN.String()).Errorf("send completion failed: %s", err.Error())
		}
	}
}

// handlers are the job functions of the purger.
type handlers struct {
	storage    storage.Storage
	plugins    map[models.CDN]plugin.Plugin
	workers    map[models.CDN]worker.Worker
	aggregator aggregator.Aggregator
	queue      worker.Queue
}

func newHandlers(cfg *config.Config, sender Sender, s storage.Storage, plugins map[models.CDN]plugin.Plugin, processors map[models.CDN]processor.Processor) *handlers {
	q := NewQueue(sender)
	workers := make(map[models.CDN]worker.Worker, len(processors))
	for cdn, p := range processors {
		workers[cdn] = worker.New(&cfg.Purge, p, s, q)
	}

	return &handlers{
		storage:    s,
		plugins:    plugins,
		workers:    workers,
		aggregator: aggregator.New(&cfg.Purge, s),
		queue:      q,
	}
}

func (h *handlers) namedJobFuncs() map[string]any {
	namedJobFuncs := map[string]any{}
	for _, cdn := range models.CDNs {
		cdn := cdn
		if _, ok := h.plugins[cdn]; ok {
			namedJobFuncs[internaljob.JobName(internaljob.BatchJobPrefix, cdn.String())] = func(ctx context.Context, req string) error {
				return h.batch(ctx, cdn, req)
			}
		}

		if _, ok := h.workers[cdn]; ok {
			namedJobFuncs[internaljob.JobName(internaljob.PurgeJobPrefix, cdn.String())] = func(ctx context.Context, req string) error {
				return h.purge(ctx, cdn, req)
			}
		}

		namedJobFuncs[internaljob.JobName(internaljob.CompleteJobPrefix, cdn.String())] = func(ctx context.Context, req string) error {
			return h.complete(ctx, req)
		}
	}

	return namedJobFuncs
}
