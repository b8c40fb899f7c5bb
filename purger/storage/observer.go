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
)

// ObserveFunc is called with the stored document after a successful write.
type ObserveFunc func(ctx context.Context, doc any)

type observedCollection struct {
	Collection
	observe ObserveFunc
}

// NewObservedCollection returns a collection notifying fn of every write,
// acting as the change feed of the collection.
func NewObservedCollection(c Collection, fn ObserveFunc) Collection {
	return &observedCollection{
		Collection: c,
		observe:    fn,
	}
}

func (o *observedCollection) Create(ctx context.Context, id string, doc any) error {
	if err := o.Collection.Create(ctx, id, doc); err != nil {
		return err
	}

	o.observe(ctx, doc)
	return nil
}

func (o *observedCollection) Upsert(ctx context.Context, id string, doc any) error {
	if err := o.Collection.Upsert(ctx, id, doc); err != nil {
		return err
	}

	o.observe(ctx, doc)
	return nil
}

func (o *observedCollection) Update(ctx context.Context, id string, doc any, mutate func() error) error {
	if err := o.Collection.Update(ctx, id, doc, mutate); err != nil {
		return err
	}

	o.observe(ctx, doc)
	return nil
}
