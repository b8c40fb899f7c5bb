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

package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	logger "d7y.io/cacheout/internal/dflog"
)

const (
	// KeySeparator is the separator of redis key.
	KeySeparator = ":"

	// KeyPrefix is the prefix of every cacheout key.
	KeyPrefix = "cacheout"
)

const (
	// DocumentsNamespace prefix of documents namespace cache key.
	DocumentsNamespace = "documents"

	// IndexesNamespace prefix of collection indexes namespace cache key.
	IndexesNamespace = "indexes"
)

// NewRedis returns a new redis client.
func NewRedis(cfg *redis.UniversalOptions) (redis.UniversalClient, error) {
	redis.SetLogger(&redisLogger{})
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:            cfg.Addrs,
		MasterName:       cfg.MasterName,
		DB:               cfg.DB,
		Username:         cfg.Username,
		Password:         cfg.Password,
		SentinelUsername: cfg.SentinelUsername,
		SentinelPassword: cfg.SentinelPassword,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// IsEnabled check redis is enabled.
func IsEnabled(addrs []string) bool {
	return len(addrs) != 0
}

// MakeNamespaceKey make namespace key.
func MakeNamespaceKey(namespace string) string {
	return fmt.Sprintf("%s:%s", KeyPrefix, namespace)
}

// MakeKey make key.
func MakeKey(namespace, id string) string {
	return fmt.Sprintf("%s:%s", MakeNamespaceKey(namespace), id)
}

// MakeDocumentKey make document key of the collection.
func MakeDocumentKey(collection, id string) string {
	return MakeKey(DocumentsNamespace, fmt.Sprintf("%s:%s", collection, id))
}

// MakeIndexKey make the key of the set holding every document id of the collection.
func MakeIndexKey(collection string) string {
	return MakeKey(IndexesNamespace, collection)
}

type redisLogger struct{}

func (l *redisLogger) Printf(ctx context.Context, format string, v ...any) {
	logger.StorageLogger.Infof(format, v...)
}
