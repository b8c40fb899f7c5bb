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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/version"
)

const (
	// Namespace of every metric.
	Namespace = "cacheout"

	// Subsystem of the purger metrics.
	Subsystem = "purger"
)

// Variables declared for metrics.
var (
	PurgeCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "purge_total",
		Help:      "Counter of the number of purge calls by cdn and resulting status.",
	}, []string{"cdn", "status"})

	PollCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "poll_total",
		Help:      "Counter of the number of poll calls by cdn and resulting status.",
	}, []string{"cdn", "status"})

	CdnRequestCompletedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "cdn_request_completed_total",
		Help:      "Counter of the number of cdn requests reaching a terminal status.",
	}, []string{"cdn", "status"})

	CdnRequestRetryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "cdn_request_retry_total",
		Help:      "Counter of the number of re-enqueued cdn requests.",
	}, []string{"cdn"})

	PartnerRequestCompletedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "partner_request_completed_total",
		Help:      "Counter of the number of completed partner requests.",
	}, []string{"cdn", "status"})

	UserRequestCompletedCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "user_request_completed_total",
		Help:      "Counter of the number of user requests whose every partner request completed.",
	})

	UserRequestCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "user_request_total",
		Help:      "Counter of the number of submitted user requests.",
	})

	VersionGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: Subsystem,
		Name:      "version",
		Help:      "Version info of the service.",
	}, []string{"major", "minor", "git_version", "git_commit", "platform", "build_time", "go_version"})
)

// New returns the metrics server.
func New(cfg *config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	VersionGauge.WithLabelValues(version.Major, version.Minor, version.GitVersion, version.GitCommit, version.Platform, version.BuildTime, version.GoVersion).Set(1)
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
}
