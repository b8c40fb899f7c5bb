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

package purger

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	logger "d7y.io/cacheout/internal/dflog"
	internaljob "d7y.io/cacheout/internal/job"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/job"
	"d7y.io/cacheout/purger/metrics"
	"d7y.io/cacheout/purger/plugin"
	"d7y.io/cacheout/purger/processor"
	"d7y.io/cacheout/purger/service"
	"d7y.io/cacheout/purger/storage"
)

type Server struct {
	// Server configuration
	config *config.Config

	// Document storage
	storage storage.Storage

	// Async job
	job job.Job

	// Submission service
	service service.Service

	// Metrics server
	metricsServer *http.Server

	done     chan struct{}
	stopOnce sync.Once
}

// New wires the storage, the cdn plugins and processors to the job queues.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{
		config: cfg,
		done:   make(chan struct{}),
	}

	// Initialize job queues
	j, err := internaljob.New(jobConfig(cfg))
	if err != nil {
		logger.Errorf("job queues failed to start: %s", err.Error())
		return nil, err
	}

	// Initialize storage, completed cdn requests feed the completion queue
	s.storage, err = storage.New(cfg, storage.WithCdnRequestObserver(job.NewCompletionObserver(j)))
	if err != nil {
		logger.Errorf("storage failed to start: %s", err.Error())
		return nil, err
	}

	// Initialize cdn processors
	processors, err := processor.New(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize cdn plugins
	plugins := plugin.New(cfg)

	// Initialize job service
	s.job, err = job.New(cfg, j, s.storage, plugins, processors)
	if err != nil {
		return nil, err
	}

	// Initialize submission service
	s.service = service.New(s.storage, j)

	// Initialize metrics
	if cfg.Metrics.Enable {
		s.metricsServer = metrics.New(&cfg.Metrics)
	}

	return s, nil
}

// Service returns the submission service of the server.
func (s *Server) Service() service.Service {
	return s.service
}

// Serve blocks until Stop is called or the metrics server fails.
func (s *Server) Serve() error {
	// Serve Job
	s.job.Serve()
	logger.Info("job start successfully")

	g, ctx := errgroup.WithContext(context.Background())

	// Started metrics server
	if s.metricsServer != nil {
		g.Go(func() error {
			logger.Infof("started metrics server at %s", s.metricsServer.Addr)
			if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("metrics server closed unexpect: %v", err)
				return err
			}

			return nil
		})
	}

	g.Go(func() error {
		select {
		case <-s.done:
		case <-ctx.Done():
		}

		return nil
	})

	return g.Wait()
}

func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		// Stop job workers
		s.job.Stop()
		logger.Info("job closed")

		// Stop metrics server
		if s.metricsServer != nil {
			if err := s.metricsServer.Shutdown(context.Background()); err != nil {
				logger.Errorf("metrics server failed to stop: %v", err)
			}
			logger.Info("metrics server closed under request")
		}

		// Close storage
		if err := s.storage.Close(); err != nil {
			logger.Errorf("storage failed to close: %v", err)
		}
		logger.Info("storage closed")

		close(s.done)
	})
}

// Client submits purges without consuming any queue.
type Client struct {
	service.Service

	storage storage.Storage
}

// NewClient connects the submission service to the storage and the batch queue.
func NewClient(cfg *config.Config) (*Client, error) {
	j, err := internaljob.New(jobConfig(cfg))
	if err != nil {
		return nil, err
	}

	s, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		Service: service.New(s, j),
		storage: s,
	}, nil
}

func (c *Client) Close() error {
	return c.storage.Close()
}

func jobConfig(cfg *config.Config) *internaljob.Config {
	return &internaljob.Config{
		Addrs:      cfg.Job.Redis.Addrs,
		MasterName: cfg.Job.Redis.MasterName,
		Username:   cfg.Job.Redis.Username,
		Password:   cfg.Job.Redis.Password,
		BrokerDB:   cfg.Job.Redis.BrokerDB,
		BackendDB:  cfg.Job.Redis.BackendDB,
	}
}
