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

package config

import "time"

const (
	// DefaultConfigFilePath is the default path of the purger configuration file.
	DefaultConfigFilePath = "/etc/cacheout/purger.yaml"

	// DefaultLogDir is the default directory of log files.
	DefaultLogDir = "/var/log/cacheout"
)

const (
	// DefaultMaxRetry is the default number of retryable failures of a cdn request.
	DefaultMaxRetry = 5

	// DefaultRetryWaitTime is the default base visibility delay of a re-enqueued cdn request.
	DefaultRetryWaitTime = 2 * time.Second

	// DefaultRequestTimeout is the default timeout of a cdn call.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultBatchSize is the default maximum number of urls in a purge call.
	DefaultBatchSize = 200
)

const (
	// DefaultAFDBaseURI is the default tenants root of the AFD purge api.
	DefaultAFDBaseURI = "https://www.afdcp.com/api/v2.0/Tenants/"

	// DefaultAzureADAuthority is the default azure ad login endpoint.
	DefaultAzureADAuthority = "https://login.microsoftonline.com/common"

	// DefaultAFDResource is the default audience of AFD tokens.
	DefaultAFDResource = "https://www.afdcp.com"

	// DefaultAkamaiBaseURI is the default fast purge endpoint root.
	DefaultAkamaiBaseURI = "https://akab-host.purge.akamaiapis.net/ccu/v3/invalidate/url/"
)

const (
	DefaultMysqlPort        = 3306
	DefaultPostgresPort     = 5432
	DefaultDBName           = "cacheout"
	DefaultPostgresSSLMode  = "disable"
	DefaultPostgresTimezone = "UTC"
)

const (
	DefaultRedisBrokerDB  = 1
	DefaultRedisBackendDB = 2

	DefaultBatchWorkers      = 5
	DefaultPurgeWorkers      = 10
	DefaultCompletionWorkers = 10
)

const (
	// DefaultMetricsAddr is the default address of the metrics server.
	DefaultMetricsAddr = ":8000"
)
