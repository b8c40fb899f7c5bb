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

import "time"

// Job names, suffixed by the lower case cdn name.
const (
	// BatchJobPrefix splits a partner request into cdn requests.
	BatchJobPrefix = "batch"

	// PurgeJobPrefix drives a cdn request through submit and poll.
	PurgeJobPrefix = "purge"

	// CompleteJobPrefix rolls a terminal cdn request up to its parents.
	CompleteJobPrefix = "complete"
)

// Machinery server configuration.
const (
	DefaultResultsExpireIn     = 86400
	DefaultRedisMaxIdle        = 70
	DefaultRedisIdleTimeout    = 30
	DefaultRedisReadTimeout    = 60
	DefaultRedisWriteTimeout   = 60
	DefaultRedisConnectTimeout = 60
)

const (
	// DefaultSendTimeout is the timeout of publishing a job to the broker.
	DefaultSendTimeout = 10 * time.Second

	// DefaultRetryCount is the number of redeliveries of a job returning an error.
	DefaultRetryCount = 3
)
