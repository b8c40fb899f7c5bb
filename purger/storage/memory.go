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

package storage

import (
	"context"
	"sync"
)

type memoryDocument struct {
	data    []byte
	version int64
}

type memoryCollection struct {
	ids       []string
	documents map[string]*memoryDocument
}

// memoryDriver keeps documents in process memory, used by the dev mode and tests.
type memoryDriver struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

func newMemoryDriver() *memoryDriver {
	return &memoryDriver{
		collections: map[string]*memoryCollection{},
	}
}

func (m *memoryDriver) load(ctx context.Context, collection, id string) ([]byte, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return nil, 0, ErrNotFound
	}

	doc, ok := c.documents[id]
	if !ok {
		return nil, 0, ErrNotFound
	}

	data := make([]byte, len(doc.data))
	copy(data, doc.data)
	return data, doc.version, nil
}

func (m *memoryDriver) store(ctx context.Context, collection, id string, data []byte, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.loadOrCreateCollection(collection)
	doc, ok := c.documents[id]
	if version == 0 {
		if ok {
			return ErrAlreadyExists
		}

		c.ids = append(c.ids, id)
		c.documents[id] = &memoryDocument{data: clone(data), version: 1}
		return nil
	}

	if !ok {
		return ErrNotFound
	}

	if doc.version != version {
		return ErrConflict
	}

	doc.data = clone(data)
	doc.version++
	return nil
}

func (m *memoryDriver) put(ctx context.Context, collection, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.loadOrCreateCollection(collection)
	doc, ok := c.documents[id]
	if !ok {
		c.ids = append(c.ids, id)
		c.documents[id] = &memoryDocument{data: clone(data), version: 1}
		return nil
	}

	doc.data = clone(data)
	doc.version++
	return nil
}

func (m *memoryDriver) list(ctx context.Context, collection string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return nil, nil
	}

	var docs [][]byte
	for _, id := range c.ids {
		docs = append(docs, clone(c.documents[id].data))
	}

	return docs, nil
}

func (m *memoryDriver) close() error {
	return nil
}

func (m *memoryDriver) loadOrCreateCollection(collection string) *memoryCollection {
	c, ok := m.collections[collection]
	if !ok {
		c = &memoryCollection{documents: map[string]*memoryDocument{}}
		m.collections[collection] = c
	}

	return c
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
