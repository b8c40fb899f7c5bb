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

package logcore

import (
	"path/filepath"

	"go.uber.org/zap"

	logger "d7y.io/cacheout/internal/dflog"
)

type logInitMeta struct {
	fileName             string
	setSugaredLoggerFunc func(*zap.SugaredLogger)
}

// InitPurger redirects the purger loggers to files under dir/purger.
// Console mode keeps the development loggers.
func InitPurger(verbose, console bool, dir string) error {
	if console {
		if verbose {
			logger.SetLevel(zap.DebugLevel)
		}
		return nil
	}

	return createFileLogger(verbose, []logInitMeta{
		{
			fileName:             CoreLogFileName,
			setSugaredLoggerFunc: logger.SetCoreLogger,
		},
		{
			fileName:             JobLogFileName,
			setSugaredLoggerFunc: logger.SetJobLogger,
		},
		{
			fileName:             StorageLogFileName,
			setSugaredLoggerFunc: logger.SetStorageLogger,
		},
		{
			fileName:             CDNLogFileName,
			setSugaredLoggerFunc: logger.SetCDNLogger,
		},
	}, filepath.Join(dir, "purger"))
}

func createFileLogger(verbose bool, meta []logInitMeta, logDir string) error {
	logger.ResetLevels()
	for _, m := range meta {
		log, level, err := CreateLogger(filepath.Join(logDir, m.fileName), false, verbose)
		if err != nil {
			return err
		}

		m.setSugaredLoggerFunc(log.Sugar())
		logger.AddLevel(level)
	}

	return nil
}
