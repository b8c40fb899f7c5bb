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

package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Run calls f until it succeeds, asks to cancel, or maxAttempts is reached.
// Attempts are separated by a jittered exponential backoff in seconds,
// bounded by maxBackoff.
func Run(ctx context.Context,
	initBackoff float64,
	maxBackoff float64,
	maxAttempts int,
	f func() (data any, cancel bool, err error)) (any, bool, error) {
	var (
		res    any
		cancel bool
		cause  error
	)
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, cancel, ctx.Err()
			case <-time.After(RandBackoff(initBackoff, maxBackoff, 2.0, i)):
			}
		}

		res, cancel, cause = f()
		if cause == nil || cancel {
			break
		}
	}

	return res, cancel, cause
}

// RandBackoff returns a random duration in [0.5, 1) of the exponential backoff
// initBackoff*multiplier^(attempt-1), bounded by maxBackoff.
func RandBackoff(initBackoff, maxBackoff, multiplier float64, attempt int) time.Duration {
	backoff := initBackoff * math.Pow(multiplier, float64(attempt-1))
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	backoff = backoff/2 + rand.Float64()*backoff/2
	return time.Duration(backoff * float64(time.Second))
}
