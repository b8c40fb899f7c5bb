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
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	pkgredis "d7y.io/cacheout/pkg/redis"
	"d7y.io/cacheout/purger/config"
)

const (
	// Hash fields of a document.
	redisDataField    = "data"
	redisVersionField = "version"
)

// redisDriver stores a document as a hash holding its data and version,
// conditional writes are WATCH transactions on the document key.
type redisDriver struct {
	rdb redis.UniversalClient
}

func newRedisDriver(cfg config.RedisConfig) (*redisDriver, error) {
	rdb, err := pkgredis.NewRedis(&redis.UniversalOptions{
		Addrs:      cfg.Addrs,
		MasterName: cfg.MasterName,
		DB:         cfg.DB,
		Username:   cfg.Username,
		Password:   cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	return &redisDriver{rdb: rdb}, nil
}

func (r *redisDriver) load(ctx context.Context, collection, id string) ([]byte, int64, error) {
	values, err := r.rdb.HMGet(ctx, pkgredis.MakeDocumentKey(collection, id), redisDataField, redisVersionField).Result()
	if err != nil {
		return nil, 0, err
	}

	if len(values) != 2 || values[0] == nil {
		return nil, 0, ErrNotFound
	}

	data, ok := values[0].(string)
	if !ok {
		return nil, 0, ErrNotFound
	}

	var version int64
	if s, ok := values[1].(string); ok {
		if version, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, 0, err
		}
	}

	return []byte(data), version, nil
}

func (r *redisDriver) store(ctx context.Context, collection, id string, data []byte, version int64) error {
	key := pkgredis.MakeDocumentKey(collection, id)
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, redisVersionField).Int64()
		switch {
		case errors.Is(err, redis.Nil):
			if version != 0 {
				return ErrNotFound
			}
		case err != nil:
			return err
		case version == 0:
			return ErrAlreadyExists
		case current != version:
			return ErrConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, redisDataField, string(data), redisVersionField, version+1)
			pipe.SAdd(ctx, pkgredis.MakeIndexKey(collection), id)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}

	return err
}

func (r *redisDriver) put(ctx context.Context, collection, id string, data []byte) error {
	key := pkgredis.MakeDocumentKey(collection, id)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, redisDataField, string(data))
		pipe.HIncrBy(ctx, key, redisVersionField, 1)
		pipe.SAdd(ctx, pkgredis.MakeIndexKey(collection), id)
		return nil
	})

	return err
}

func (r *redisDriver) list(ctx context.Context, collection string) ([][]byte, error) {
	ids, err := r.rdb.SMembers(ctx, pkgredis.MakeIndexKey(collection)).Result()
	if err != nil {
		return nil, err
	}

	var docs [][]byte
	for _, id := range ids {
		data, err := r.rdb.HGet(ctx, pkgredis.MakeDocumentKey(collection, id), redisDataField).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}

		if err != nil {
			return nil, err
		}

		docs = append(docs, []byte(data))
	}

	return docs, nil
}

func (r *redisDriver) close() error {
	return r.rdb.Close()
}
