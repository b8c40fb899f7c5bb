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

package job

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/RichardKnop/machinery/v1"
	machineryv1config "github.com/RichardKnop/machinery/v1/config"
	machineryv1log "github.com/RichardKnop/machinery/v1/log"
	machineryv1tasks "github.com/RichardKnop/machinery/v1/tasks"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	logger "d7y.io/cacheout/internal/dflog"
)

type Config struct {
	Addrs      []string
	MasterName string
	Username   string
	Password   string
	BrokerDB   int
	BackendDB  int
}

type Job struct {
	Server *machinery.Server

	mu      sync.Mutex
	workers []*machinery.Worker
}

func New(cfg *Config) (*Job, error) {
	// Set logger
	machineryv1log.Set(&MachineryLogger{})

	if err := ping(&redis.UniversalOptions{
		Addrs:      cfg.Addrs,
		MasterName: cfg.MasterName,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.BackendDB,
	}); err != nil {
		return nil, err
	}

	server, err := machinery.NewServer(&machineryv1config.Config{
		Broker:          redisURL(cfg, cfg.BrokerDB),
		DefaultQueue:    PurgeQueue.String(),
		ResultBackend:   redisURL(cfg, cfg.BackendDB),
		ResultsExpireIn: DefaultResultsExpireIn,
		Redis: &machineryv1config.RedisConfig{
			MasterName:     cfg.MasterName,
			MaxIdle:        DefaultRedisMaxIdle,
			IdleTimeout:    DefaultRedisIdleTimeout,
			ReadTimeout:    DefaultRedisReadTimeout,
			WriteTimeout:   DefaultRedisWriteTimeout,
			ConnectTimeout: DefaultRedisConnectTimeout,
		},
	})
	if err != nil {
		return nil, err
	}

	return &Job{
		Server: server,
	}, nil
}

func redisURL(cfg *Config, db int) string {
	return fmt.Sprintf("redis://%s@%s/%d", url.QueryEscape(cfg.Password), strings.Join(cfg.Addrs, ","), db)
}

func ping(options *redis.UniversalOptions) error {
	client := redis.NewUniversalClient(options)
	defer client.Close()

	return client.Ping(context.Background()).Err()
}

func (j *Job) RegisterJob(namedJobFuncs map[string]any) error {
	return j.Server.RegisterTasks(namedJobFuncs)
}

// LaunchWorker consumes the queue until the worker quits.
func (j *Job) LaunchWorker(consumerTag string, concurrency int, queue Queue) error {
	worker := j.Server.NewCustomQueueWorker(consumerTag, concurrency, queue.String())

	j.mu.Lock()
	j.workers = append(j.workers, worker)
	j.mu.Unlock()

	return worker.Launch()
}

// Stop quits every launched worker.
func (j *Job) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, worker := range j.workers {
		worker.Quit()
	}
	j.workers = nil
}

// Send publishes req as the single string argument of the named job.
// A positive delay postpones delivery. A job returning an error is
// redelivered up to DefaultRetryCount times.
func (j *Job) Send(ctx context.Context, queue Queue, name string, req any, delay time.Duration) error {
	signature, err := NewSignature(queue, name, req, delay)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultSendTimeout)
	defer cancel()

	if _, err := j.Server.SendTaskWithContext(ctx, signature); err != nil {
		logger.WithJob(name, signature.UUID).Errorf("send job to queue %s failed: %s", queue, err.Error())
		return err
	}

	return nil
}

// NewSignature builds the machinery signature of a job.
func NewSignature(queue Queue, name string, req any, delay time.Duration) (*machineryv1tasks.Signature, error) {
	args, err := MarshalRequest(req)
	if err != nil {
		return nil, err
	}

	signature := &machineryv1tasks.Signature{
		UUID:       fmt.Sprintf("task_%s", uuid.New().String()),
		Name:       name,
		RoutingKey: queue.String(),
		Args:       args,
		RetryCount: DefaultRetryCount,
	}

	if delay > 0 {
		eta := time.Now().UTC().Add(delay)
		signature.ETA = &eta
	}

	return signature, nil
}

func MarshalRequest(v any) ([]machineryv1tasks.Arg, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []machineryv1tasks.Arg{{
		Type:  "string",
		Value: string(b),
	}}, nil
}

func UnmarshalRequest(data string, v any) error {
	return json.Unmarshal([]byte(data), v)
}
