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

//go:generate mockgen -destination mocks/storage_mock.go -source storage.go -package mocks

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"d7y.io/cacheout/pkg/retry"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/purger/models"
)

var (
	// ErrNotFound is returned when the document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned when creating a document whose id is taken.
	ErrAlreadyExists = errors.New("document already exists")

	// ErrConflict is returned when the document changed since it was read.
	ErrConflict = errors.New("document version conflict")

	// ErrSkip is returned by an update mutation to leave the document unchanged.
	ErrSkip = errors.New("skip update")
)

const (
	// Backoff of conflicting updates in seconds.
	updateInitBackoff = 0.01
	updateMaxBackoff  = 0.5

	// updateMaxAttempts is the number of read-modify-write attempts of an update.
	updateMaxAttempts = 10
)

const (
	PartnerCollection     = "partner"
	UserRequestCollection = "user_request"
)

// PartnerRequestCollection returns the collection name of partner requests of the cdn.
func PartnerRequestCollection(cdn models.CDN) string {
	return fmt.Sprintf("%s_partner_request", strings.ToLower(cdn.String()))
}

// CdnRequestCollection returns the collection name of cdn requests of the cdn.
func CdnRequestCollection(cdn models.CDN) string {
	return fmt.Sprintf("%s_cdn_request", strings.ToLower(cdn.String()))
}

// Collection is a keyed set of json documents.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Create stores a new document, it fails with ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, id string, doc any) error

	// Upsert stores the document whether or not it exists.
	Upsert(ctx context.Context, id string, doc any) error

	// Get decodes the document into doc.
	Get(ctx context.Context, id string, doc any) error

	// List returns every document of the collection.
	List(ctx context.Context) ([]json.RawMessage, error)

	// Update decodes the document into doc, calls mutate and stores doc only if
	// nobody changed the document in between, retrying on conflicts.
	// An error returned by mutate aborts the update and is returned as is.
	Update(ctx context.Context, id string, doc any, mutate func() error) error
}

// Storage is the document store of the purger.
type Storage interface {
	// Partners returns the partner collection.
	Partners() Collection

	// UserRequests returns the user request collection.
	UserRequests() Collection

	// PartnerRequests returns the partner request collection of the cdn.
	PartnerRequests(cdn models.CDN) Collection

	// CdnRequests returns the cdn request collection of the cdn.
	CdnRequests(cdn models.CDN) Collection

	// Close releases the backend.
	Close() error
}

// driver is the backend primitive set every collection is built on.
type driver interface {
	// load returns the raw document and its version.
	load(ctx context.Context, collection, id string) ([]byte, int64, error)

	// store writes the document if its current version equals version,
	// a zero version creates the document.
	store(ctx context.Context, collection, id string, data []byte, version int64) error

	// put writes the document unconditionally.
	put(ctx context.Context, collection, id string, data []byte) error

	// list returns every raw document of the collection.
	list(ctx context.Context, collection string) ([][]byte, error)

	close() error
}

// Option is a functional option for storage.
type Option func(s *storage)

// WithCdnRequestObserver calls fn after each successful write of a cdn request.
func WithCdnRequestObserver(fn ObserveFunc) Option {
	return func(s *storage) {
		s.cdnRequestObserver = fn
	}
}

type storage struct {
	driver             driver
	cdnRequestObserver ObserveFunc
}

// New returns the storage of the configured backend.
func New(cfg *config.Config, options ...Option) (Storage, error) {
	var (
		d   driver
		err error
	)
	switch cfg.Storage.Type {
	case config.StorageTypeRedis:
		d, err = newRedisDriver(cfg.StorageRedis())
	case config.StorageTypeMysql:
		d, err = newMysqlDriver(cfg)
	case config.StorageTypePostgres:
		d, err = newPostgresDriver(cfg)
	case config.StorageTypeMemory:
		d = newMemoryDriver()
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	if err != nil {
		return nil, err
	}

	return newStorage(d, options...), nil
}

// NewMemory returns a storage keeping documents in process memory.
func NewMemory(options ...Option) Storage {
	return newStorage(newMemoryDriver(), options...)
}

func newStorage(d driver, options ...Option) *storage {
	s := &storage{driver: d}
	for _, opt := range options {
		opt(s)
	}

	return s
}

func (s *storage) Partners() Collection {
	return &collection{name: PartnerCollection, driver: s.driver}
}

func (s *storage) UserRequests() Collection {
	return &collection{name: UserRequestCollection, driver: s.driver}
}

func (s *storage) PartnerRequests(cdn models.CDN) Collection {
	return &collection{name: PartnerRequestCollection(cdn), driver: s.driver}
}

func (s *storage) CdnRequests(cdn models.CDN) Collection {
	c := &collection{name: CdnRequestCollection(cdn), driver: s.driver}
	if s.cdnRequestObserver == nil {
		return c
	}

	return NewObservedCollection(c, s.cdnRequestObserver)
}

func (s *storage) Close() error {
	return s.driver.close()
}

type collection struct {
	name   string
	driver driver
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) Create(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return c.driver.store(ctx, c.name, id, data, 0)
}

func (c *collection) Upsert(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return c.driver.put(ctx, c.name, id, data)
}

func (c *collection) Get(ctx context.Context, id string, doc any) error {
	data, _, err := c.driver.load(ctx, c.name, id)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, doc)
}

func (c *collection) List(ctx context.Context) ([]json.RawMessage, error) {
	raws, err := c.driver.list(ctx, c.name)
	if err != nil {
		return nil, err
	}

	docs := make([]json.RawMessage, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, json.RawMessage(raw))
	}

	return docs, nil
}

func (c *collection) Update(ctx context.Context, id string, doc any, mutate func() error) error {
	_, _, err := retry.Run(ctx, updateInitBackoff, updateMaxBackoff, updateMaxAttempts, func() (any, bool, error) {
		data, version, err := c.driver.load(ctx, c.name, id)
		if err != nil {
			return nil, true, err
		}

		reset(doc)
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, true, err
		}

		if err := mutate(); err != nil {
			return nil, true, err
		}

		data, err = json.Marshal(doc)
		if err != nil {
			return nil, true, err
		}

		if err := c.driver.store(ctx, c.name, id, data, version); err != nil {
			return nil, !errors.Is(err, ErrConflict), err
		}

		return nil, false, nil
	})

	return err
}

// reset zeroes the value doc points to, so that decoding does not merge
// into the state of a previous attempt.
func reset(doc any) {
	v := reflect.ValueOf(doc)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}

	v.Elem().Set(reflect.Zero(v.Elem().Type()))
}
