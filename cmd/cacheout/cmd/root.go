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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"d7y.io/cacheout/cmd/dependency"
	logger "d7y.io/cacheout/internal/dflog"
	"d7y.io/cacheout/internal/dflog/logcore"
	"d7y.io/cacheout/purger"
	"d7y.io/cacheout/purger/config"
	"d7y.io/cacheout/version"
)

var (
	cfg *config.Config
)

var cacheoutDescription = `cacheout is a long-running process that purges cached urls on several cdns.
A purge submitted by a partner is split into batches per enabled cdn, each batch is
sent to the cdn purge api and polled until the cdn reports it completed or the retries
are exhausted.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:               "cacheout",
	Short:             "the multi-cdn cache purge broker",
	Long:              cacheoutDescription,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate config.
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Initialize logger.
		if err := logcore.InitPurger(cfg.Verbose, cfg.Console, cfg.LogDir); err != nil {
			return errors.Wrap(err, "init purger logger")
		}

		return runPurger(context.Background())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	// Initialize default purger config.
	cfg = config.New()
	// Initialize command and config.
	dependency.InitCommandAndConfig(rootCmd, config.DefaultConfigFilePath, cfg)

	rootCmd.AddCommand(newPartnerCommand())
	rootCmd.AddCommand(newPurgeCommand())
}

func runPurger(ctx context.Context) error {
	logger.Infof("version:\n%s", version.Version())

	// Purger config values.
	if logger.IsDebug() {
		s, _ := yaml.Marshal(cfg)
		logger.Debugf("purger configuration:\n%s", string(s))
	}

	svr, err := purger.New(ctx, cfg)
	if err != nil {
		return err
	}

	dependency.SetupQuitSignalHandler(func() { svr.Stop() })
	return svr.Serve()
}

// newClient connects to the storage and the batch queue of the purger.
func newClient() (*purger.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return purger.NewClient(cfg)
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(b))
	return nil
}
