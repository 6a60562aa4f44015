// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command pfxtrie loads IPv4 rule files into a prefix trie and answers
// longest prefix match queries, dumps the trie, benchmarks it and serves
// lookups and metrics over HTTP.
package main

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaissmai/pfxtrie/handle"
	"github.com/gaissmai/pfxtrie/internal/rules"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	buildVersion       = "unknown"
	cfgFile            string
	logLevel           string
	envPrefix          = "PFXTRIE"
	defaultCfgFileName = ".pfxtrie"
	opts               options
)

type options struct {
	Rules   string
	Metrics struct {
		Address string
		Port    int
	}
	Bench struct {
		Prefixes int
		Lookups  int
	}
}

// rootCmd represents the root command
var rootCmd = &cobra.Command{
	Use:           "pfxtrie",
	Short:         "Longest prefix match on IPv4 rule files",
	Version:       buildVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// initConfig use config file and ENV variables if set.
func initConfig() {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal(err)
		}
		// Search config in home directory with name ".pfxtrie" (without extension).
		v.AddConfigPath(home)
		v.SetConfigName(defaultCfgFileName)
	}

	// Read environment variables that match prefix
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	cfgErr := v.ReadInConfig()

	bindFlags(rootCmd.PersistentFlags(), v)
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd.Flags(), v)
	}

	initLogger()

	var notFound viper.ConfigFileNotFoundError
	if cfgErr != nil && !errors.As(cfgErr, &notFound) {
		log.Errorf("Read config error: %v", cfgErr)
	}
}

func initLogger() {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		ll = log.ErrorLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{DisableColors: false, FullTimestamp: true, PadLevelText: true, DisableQuote: true})
}

// bindFlags applies config file and env values to all flags not set on the command line.
func bindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(f.Name))
		_ = v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix))

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			switch val.(type) {
			case bool, uint, string, int32, int16, int8, int, uint32, uint64, int64, float64, float32:
				_ = fs.Set(f.Name, fmt.Sprintf("%v", val))
			default:
				b, err := json.Marshal(&val)
				if err != nil {
					log.Fatalf("can't parse flag %s into json with value %v got error %s", f.Name, val, err)
					return
				}
				_ = fs.Set(f.Name, string(b))
			}
		}
	})
}

func initFlags() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is $HOME/%s)", defaultCfgFileName))
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warning, error")
	rootCmd.PersistentFlags().StringVar(&opts.Rules, "rules", "", "YAML rules file")

	serveCmd.Flags().StringVar(&opts.Metrics.Address, "metrics.address", "0.0.0.0", "HTTP server address")
	serveCmd.Flags().IntVar(&opts.Metrics.Port, "metrics.port", 9090, "HTTP server port")

	benchCmd.Flags().IntVar(&opts.Bench.Prefixes, "bench.prefixes", 100_000, "number of random prefixes to insert")
	benchCmd.Flags().IntVar(&opts.Bench.Lookups, "bench.lookups", 1_000_000, "number of random lookups")

	rootCmd.AddCommand(lookupCmd, dumpCmd, jsonCmd, benchCmd, metricsCmd, serveCmd)
}

// loadRules creates a table in the default registry and fills it from the rules file.
func loadRules() (*handle.Registry, handle.Handle, error) {
	if opts.Rules == "" {
		return nil, 0, errors.New("no rules file, use --rules")
	}

	f, err := rules.Load(opts.Rules)
	if err != nil {
		return nil, 0, err
	}

	reg := handle.Default
	h := reg.Create()
	if err := rules.Apply(reg, h, f); err != nil {
		reg.Destroy(h)
		return nil, 0, err
	}

	log.WithField("rules", len(f.Rules)).WithField("handle", h).Info("rules loaded")
	return reg, h, nil
}

func main() {
	initFlags()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
