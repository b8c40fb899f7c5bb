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

package slices

// Contains returns true if an element is present in a collection.
func Contains[T comparable](s []T, e T) bool {
	for _, v := range s {
		if v == e {
			return true
		}
	}

	return false
}

// RemoveDuplicates removes duplicate element in a collection,
// keeping the first occurrence of each element in order.
func RemoveDuplicates[T comparable](s []T) []T {
	result := make([]T, 0, len(s))
	visited := make(map[T]bool, len(s))
	for _, v := range s {
		if !visited[v] {
			visited[v] = true
			result = append(result, v)
		}
	}

	return result
}

// Batch splits a collection into consecutive batches of at most size elements.
// The input order is preserved, every batch but the last is full, and an
// empty collection yields no batch. A non positive size yields a single batch.
func Batch[T any](s []T, size int) [][]T {
	if len(s) == 0 {
		return [][]T{}
	}

	if size <= 0 || size >= len(s) {
		batch := make([]T, len(s))
		copy(batch, s)
		return [][]T{batch}
	}

	batches := make([][]T, 0, (len(s)+size-1)/size)
	for start := 0; start < len(s); start += size {
		end := start + size
		if end > len(s) {
			end = len(s)
		}

		batch := make([]T, end-start)
		copy(batch, s[start:end])
		batches = append(batches, batch)
	}

	return batches
}
