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
	"fmt"
	"strings"
)

type Queue string

const (
	// BatchQueue carries partner request ids waiting to be split by a plugin.
	BatchQueue Queue = "cacheout_batch"

	// PurgeQueue carries cdn requests waiting for a submit or a poll.
	PurgeQueue Queue = "cacheout_purge"

	// CompletionQueue carries written cdn requests for aggregation.
	CompletionQueue Queue = "cacheout_completion"
)

func (q Queue) String() string {
	return string(q)
}

// JobName returns the job name of the prefix for the cdn, e.g. purge_afd.
func JobName(prefix, cdn string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ToLower(cdn))
}
