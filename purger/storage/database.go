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
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	drivermysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"moul.io/zapgorm2"

	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/purger/config"
)

const (
	// defaultMysqlDialTimeout is dial timeout of mysql.
	defaultMysqlDialTimeout = 1 * time.Minute

	// defaultMysqlReadTimeout is I/O read timeout of mysql.
	defaultMysqlReadTimeout = 2 * time.Minute

	// defaultMysqlWriteTimeout is I/O write timeout of mysql.
	defaultMysqlWriteTimeout = 2 * time.Minute
)

// Document is the row of a stored document.
type Document struct {
	Collection string `gorm:"primaryKey;type:varchar(64)"`
	ID         string `gorm:"primaryKey;type:varchar(64)"`
	Data       string `gorm:"not null"`
	Version    int64  `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// databaseDriver stores documents in a single table, conditional writes
// compare the version column.
type databaseDriver struct {
	db *gorm.DB
}

func newMysqlDriver(cfg *config.Config) (*databaseDriver, error) {
	dsn := formatMysqlDSN(&cfg.Storage.Mysql)
	db, err := gorm.Open(drivermysql.Open(dsn), newGormConfig(cfg.Verbose))
	if err != nil {
		return nil, err
	}

	return newDatabaseDriver(db, cfg.Storage.Migrate)
}

func newPostgresDriver(cfg *config.Config) (*databaseDriver, error) {
	dsn := formatPostgresDSN(&cfg.Storage.Postgres)
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: dsn,
	}), newGormConfig(cfg.Verbose))
	if err != nil {
		return nil, err
	}

	return newDatabaseDriver(db, cfg.Storage.Migrate)
}

func newGormConfig(verbose bool) *gorm.Config {
	logLevel := gormlogger.Info
	if !verbose {
		logLevel = gormlogger.Warn
	}

	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   zapgorm2.New(logger.StorageLogger.Desugar()).LogMode(logLevel),
	}
}

func newDatabaseDriver(db *gorm.DB, migrate bool) (*databaseDriver, error) {
	if migrate {
		if err := db.AutoMigrate(&Document{}); err != nil {
			return nil, err
		}
	}

	return &databaseDriver{db: db}, nil
}

func formatMysqlDSN(cfg *config.MysqlConfig) string {
	mysqlCfg := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Addr:                 fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Net:                  "tcp",
		DBName:               cfg.DBName,
		Loc:                  time.Local,
		AllowNativePasswords: true,
		ParseTime:            true,
		InterpolateParams:    true,
		Timeout:              defaultMysqlDialTimeout,
		ReadTimeout:          defaultMysqlReadTimeout,
		WriteTimeout:         defaultMysqlWriteTimeout,
		TLSConfig:            cfg.TLSConfig,
	}

	return mysqlCfg.FormatDSN()
}

func formatPostgresDSN(cfg *config.PostgresConfig) string {
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.Port,
		cfg.SSLMode,
		cfg.Timezone,
	)
}

func (d *databaseDriver) load(ctx context.Context, collection, id string) ([]byte, int64, error) {
	var doc Document
	if err := d.db.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}

		return nil, 0, err
	}

	return []byte(doc.Data), doc.Version, nil
}

func (d *databaseDriver) store(ctx context.Context, collection, id string, data []byte, version int64) error {
	if version == 0 {
		tx := d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&Document{
			Collection: collection,
			ID:         id,
			Data:       string(data),
			Version:    1,
		})
		if tx.Error != nil {
			return tx.Error
		}

		if tx.RowsAffected == 0 {
			return ErrAlreadyExists
		}

		return nil
	}

	tx := d.db.WithContext(ctx).Model(&Document{}).
		Where("collection = ? AND id = ? AND version = ?", collection, id, version).
		Updates(map[string]any{
			"data":    string(data),
			"version": version + 1,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		if _, _, err := d.load(ctx, collection, id); err != nil {
			return err
		}

		return ErrConflict
	}

	return nil
}

func (d *databaseDriver) put(ctx context.Context, collection, id string, data []byte) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"data":       string(data),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&Document{
		Collection: collection,
		ID:         id,
		Data:       string(data),
		Version:    1,
	}).Error
}

func (d *databaseDriver) list(ctx context.Context, collection string) ([][]byte, error) {
	var documents []Document
	if err := d.db.WithContext(ctx).Where("collection = ?", collection).Order("created_at").Find(&documents).Error; err != nil {
		return nil, err
	}

	docs := make([][]byte, 0, len(documents))
	for _, doc := range documents {
		docs = append(docs, []byte(doc.Data))
	}

	return docs, nil
}

func (d *databaseDriver) close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
