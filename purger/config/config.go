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

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Console prints logs to the console instead of files.
	Console bool `yaml:"console" mapstructure:"console"`

	// Verbose enables debug logs.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`

	// LogDir is the directory of log files.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`

	// Purge configuration.
	Purge PurgeConfig `yaml:"purge" mapstructure:"purge"`

	// AFD configuration.
	AFD AFDConfig `yaml:"afd" mapstructure:"afd"`

	// Akamai configuration.
	Akamai AkamaiConfig `yaml:"akamai" mapstructure:"akamai"`

	// Storage configuration.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Job configuration.
	Job JobConfig `yaml:"job" mapstructure:"job"`

	// Metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type PurgeConfig struct {
	// MaxRetry is the number of retryable failures after which a cdn request is abandoned.
	MaxRetry int `yaml:"maxRetry" mapstructure:"maxRetry"`

	// RetryWaitTime is the base visibility delay of a re-enqueued cdn request.
	RetryWaitTime time.Duration `yaml:"retryWaitTime" mapstructure:"retryWaitTime"`

	// RequestTimeout is the timeout of a single cdn call.
	RequestTimeout time.Duration `yaml:"requestTimeout" mapstructure:"requestTimeout"`
}

type RateLimitConfig struct {
	// Limit is the number of cdn calls per second, zero disables limiting.
	Limit float64 `yaml:"limit" mapstructure:"limit"`

	// Burst is the maximum burst of cdn calls.
	Burst int `yaml:"burst" mapstructure:"burst"`
}

type AFDConfig struct {
	// BaseURI is the tenants root of the AFD purge api.
	BaseURI string `yaml:"baseURI" mapstructure:"baseURI"`

	// BatchSize is the maximum number of urls in a purge call.
	BatchSize int `yaml:"batchSize" mapstructure:"batchSize"`

	// RateLimit of purge and poll calls.
	RateLimit RateLimitConfig `yaml:"rateLimit" mapstructure:"rateLimit"`

	// Auth is the azure ad application used to get tokens.
	Auth AzureADConfig `yaml:"auth" mapstructure:"auth"`
}

type AzureADConfig struct {
	// Authority is the login endpoint including the directory, e.g. https://login.microsoftonline.com/<tenant>.
	Authority string `yaml:"authority" mapstructure:"authority"`

	// ClientID of the application.
	ClientID string `yaml:"clientID" mapstructure:"clientID"`

	// ClientSecret of the application.
	ClientSecret string `yaml:"clientSecret" mapstructure:"clientSecret"`

	// Resource is the audience of the token.
	Resource string `yaml:"resource" mapstructure:"resource"`
}

type AkamaiConfig struct {
	// BaseURI is the fast purge endpoint root, suffixed by the network.
	BaseURI string `yaml:"baseURI" mapstructure:"baseURI"`

	// BatchSize is the maximum number of urls in a purge call.
	BatchSize int `yaml:"batchSize" mapstructure:"batchSize"`

	// RateLimit of purge calls.
	RateLimit RateLimitConfig `yaml:"rateLimit" mapstructure:"rateLimit"`

	// EdgeGrid credentials.
	ClientToken  string `yaml:"clientToken" mapstructure:"clientToken"`
	AccessToken  string `yaml:"accessToken" mapstructure:"accessToken"`
	ClientSecret string `yaml:"clientSecret" mapstructure:"clientSecret"`
}

const (
	StorageTypeRedis    = "redis"
	StorageTypeMysql    = "mysql"
	StorageTypePostgres = "postgres"
	StorageTypeMemory   = "memory"
)

type StorageConfig struct {
	// Type is one of redis, mysql, postgres and memory.
	Type string `yaml:"type" mapstructure:"type" validate:"oneof=redis mysql postgres memory"`

	// Redis backend, shared with the job broker when the addrs are empty.
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`

	// Mysql backend.
	Mysql MysqlConfig `yaml:"mysql" mapstructure:"mysql"`

	// Postgres backend.
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`

	// Migrate creates the document table at start.
	Migrate bool `yaml:"migrate" mapstructure:"migrate"`
}

type RedisConfig struct {
	Addrs      []string `yaml:"addrs" mapstructure:"addrs"`
	MasterName string   `yaml:"masterName" mapstructure:"masterName"`
	Username   string   `yaml:"username" mapstructure:"username"`
	Password   string   `yaml:"password" mapstructure:"password"`
	DB         int      `yaml:"db" mapstructure:"db"`
	BrokerDB   int      `yaml:"brokerDB" mapstructure:"brokerDB"`
	BackendDB  int      `yaml:"backendDB" mapstructure:"backendDB"`
}

type MysqlConfig struct {
	User      string `yaml:"user" mapstructure:"user"`
	Password  string `yaml:"password" mapstructure:"password"`
	Host      string `yaml:"host" mapstructure:"host"`
	Port      int    `yaml:"port" mapstructure:"port"`
	DBName    string `yaml:"dbname" mapstructure:"dbname"`
	TLSConfig string `yaml:"tlsConfig" mapstructure:"tlsConfig"`
}

type PostgresConfig struct {
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	SSLMode  string `yaml:"sslMode" mapstructure:"sslMode"`
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

type JobConfig struct {
	// Redis is the broker and result backend of the queues.
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`

	// BatchWorkers is the concurrency of the batch queue.
	BatchWorkers int `yaml:"batchWorkers" mapstructure:"batchWorkers"`

	// PurgeWorkers is the concurrency of the purge queue.
	PurgeWorkers int `yaml:"purgeWorkers" mapstructure:"purgeWorkers"`

	// CompletionWorkers is the concurrency of the completion queue.
	CompletionWorkers int `yaml:"completionWorkers" mapstructure:"completionWorkers"`
}

type MetricsConfig struct {
	Enable bool   `yaml:"enable" mapstructure:"enable"`
	Addr   string `yaml:"addr" mapstructure:"addr"`
}

// New config instance.
func New() *Config {
	return &Config{
		Console: false,
		Verbose: false,
		LogDir:  DefaultLogDir,
		Purge: PurgeConfig{
			MaxRetry:       DefaultMaxRetry,
			RetryWaitTime:  DefaultRetryWaitTime,
			RequestTimeout: DefaultRequestTimeout,
		},
		AFD: AFDConfig{
			BaseURI:   DefaultAFDBaseURI,
			BatchSize: DefaultBatchSize,
			Auth: AzureADConfig{
				Authority: DefaultAzureADAuthority,
				Resource:  DefaultAFDResource,
			},
		},
		Akamai: AkamaiConfig{
			BaseURI:   DefaultAkamaiBaseURI,
			BatchSize: DefaultBatchSize,
		},
		Storage: StorageConfig{
			Type: StorageTypeRedis,
			Mysql: MysqlConfig{
				Port:   DefaultMysqlPort,
				DBName: DefaultDBName,
			},
			Postgres: PostgresConfig{
				Port:     DefaultPostgresPort,
				DBName:   DefaultDBName,
				SSLMode:  DefaultPostgresSSLMode,
				Timezone: DefaultPostgresTimezone,
			},
			Migrate: true,
		},
		Job: JobConfig{
			Redis: RedisConfig{
				BrokerDB:  DefaultRedisBrokerDB,
				BackendDB: DefaultRedisBackendDB,
			},
			BatchWorkers:      DefaultBatchWorkers,
			PurgeWorkers:      DefaultPurgeWorkers,
			CompletionWorkers: DefaultCompletionWorkers,
		},
		Metrics: MetricsConfig{
			Enable: false,
			Addr:   DefaultMetricsAddr,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.Purge.MaxRetry <= 0 {
		return errors.New("purge requires parameter maxRetry")
	}

	if cfg.Purge.RetryWaitTime <= 0 {
		return errors.New("purge requires parameter retryWaitTime")
	}

	if cfg.Purge.RequestTimeout <= 0 {
		return errors.New("purge requires parameter requestTimeout")
	}

	if cfg.AFD.BaseURI == "" {
		return errors.New("afd requires parameter baseURI")
	}

	if cfg.AFD.BatchSize <= 0 {
		return errors.New("afd requires parameter batchSize")
	}

	if cfg.Akamai.BaseURI == "" {
		return errors.New("akamai requires parameter baseURI")
	}

	if cfg.Akamai.BatchSize <= 0 {
		return errors.New("akamai requires parameter batchSize")
	}

	if err := validator.New().Struct(cfg.Storage); err != nil {
		return fmt.Errorf("invalid storage type %q", cfg.Storage.Type)
	}

	switch cfg.Storage.Type {
	case StorageTypeRedis:
		if len(cfg.Storage.Redis.Addrs) == 0 && len(cfg.Job.Redis.Addrs) == 0 {
			return errors.New("storage requires parameter redis addrs")
		}
	case StorageTypeMysql:
		if cfg.Storage.Mysql.User == "" {
			return errors.New("mysql requires parameter user")
		}

		if cfg.Storage.Mysql.Host == "" {
			return errors.New("mysql requires parameter host")
		}

		if cfg.Storage.Mysql.DBName == "" {
			return errors.New("mysql requires parameter dbname")
		}
	case StorageTypePostgres:
		if cfg.Storage.Postgres.User == "" {
			return errors.New("postgres requires parameter user")
		}

		if cfg.Storage.Postgres.Host == "" {
			return errors.New("postgres requires parameter host")
		}

		if cfg.Storage.Postgres.DBName == "" {
			return errors.New("postgres requires parameter dbname")
		}
	}

	if len(cfg.Job.Redis.Addrs) == 0 {
		return errors.New("job requires parameter redis addrs")
	}

	if cfg.Job.BatchWorkers <= 0 || cfg.Job.PurgeWorkers <= 0 || cfg.Job.CompletionWorkers <= 0 {
		return errors.New("job requires positive worker numbers")
	}

	if cfg.Metrics.Enable && cfg.Metrics.Addr == "" {
		return errors.New("metrics requires parameter addr")
	}

	return nil
}

// StorageRedis returns the redis of the storage, falling back to the job redis.
func (cfg *Config) StorageRedis() RedisConfig {
	if len(cfg.Storage.Redis.Addrs) != 0 {
		return cfg.Storage.Redis
	}

	redis := cfg.Job.Redis
	redis.DB = cfg.Storage.Redis.DB
	return redis
}
