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

package dependency

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	logger "d7y.io/cacheout/internal/dflog"
)

var replacer = strings.NewReplacer(".", "_")

// InitCommandAndConfig binds the common flags of the root command and
// decodes the config file and the environment into config.
func InitCommandAndConfig(cmd *cobra.Command, defaultConfigFile string, config any) {
	rootName := cmd.Root().Name()

	// Add common cmds only on root cmd
	if !cmd.HasParent() {
		cmd.AddCommand(VersionCmd)
	}

	// Add flags
	flags := cmd.PersistentFlags()
	flags.Bool("console", false, "whether logger output records to the stdout")
	flags.Bool("verbose", false, "whether logger use debug level")
	flags.String("config", "", fmt.Sprintf("the path of configuration file with yaml extension name, default is %s, it can also be set by env var: %s", defaultConfigFile, strings.ToUpper(rootName+"_config")))

	// Bind common flags
	if err := viper.BindPFlags(flags); err != nil {
		panic(fmt.Errorf("bind common flags to viper: %w", err))
	}

	// Config for binding env
	viper.SetEnvPrefix(rootName)
	viper.SetEnvKeyReplacer(replacer)
	_ = viper.BindEnv("config")

	// Add config initialization
	cobra.OnInitialize(func() { initConfig(defaultConfigFile, config) })
}

func initConfig(defaultConfigFile string, config any) {
	cfgFile := viper.GetString("config")
	if cfgFile == "" {
		cfgFile = defaultConfigFile
	}
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) && !errors.Is(err, os.ErrNotExist) {
			panic(fmt.Errorf("read config file %s: %w", viper.ConfigFileUsed(), err))
		}
	}

	viper.AutomaticEnv()

	if err := viper.Unmarshal(config, initDecoderConfig); err != nil {
		panic(fmt.Errorf("unmarshal config to struct: %w", err))
	}
}

func initDecoderConfig(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// SetupQuitSignalHandler calls handler once on the first SIGINT or SIGTERM.
func SetupQuitSignalHandler(handler func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var done bool
		for sig := range signals {
			logger.Warnf("receive %s signal", sig)
			if !done {
				done = true
				handler()
				logger.Infof("handle signal %s finish", sig)
			}
		}
	}()
}
