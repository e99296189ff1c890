package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/prism"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".prism.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence). Only flags that were explicitly set
	// are loaded so flag defaults never mask config file values.
	flags := cmd.Flags()
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (PRISM_* prefix)
	if err := k.Load(env.Provider("PRISM_", ".", func(s string) string {
		// PRISM_BUILD_OUT -> build.out
		// PRISM_PREFIX -> prefix
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "PRISM_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildConfig constructs the library's Config struct from koanf state.
func buildConfig() (prism.Config, error) {
	frameworks, err := parseFrameworks(getStringsWithFallback("frameworks", "build.frameworks", nil))
	if err != nil {
		return prism.Config{}, err
	}

	return prism.Config{
		RootDir:          getStringWithFallback("root", "root", "."),
		Components:       getStringWithFallback("components", "components", "src/components"),
		Tiers:            getStringsWithFallback("tiers", "tiers", []string{}),
		Ignore:           getStringsWithFallback("ignore", "ignore", []string{"**/index.js"}),
		Prefix:           getStringWithFallback("prefix", "prefix", ""),
		Out:              getStringWithFallback("out", "build.out", "packages"),
		Frameworks:       frameworks,
		TokenFiles:       getStringsWithFallback("tokens", "build.tokens", nil),
		CSSDir:           getStringWithFallback("css-dir", "build.css-dir", ""),
		Concurrency:      getIntWithFallback("concurrency", "build.concurrency", 8),
		RespectGitignore: getBoolWithFallback("gitignore", "build.gitignore", false),
		Logger:           newLogger(),
	}, nil
}

// parseFrameworks validates framework names; empty means all frameworks.
func parseFrameworks(names []string) ([]prism.Framework, error) {
	var frameworks []prism.Framework
	for _, name := range names {
		fw, err := prism.ParseFramework(name)
		if err != nil {
			return nil, err
		}
		frameworks = append(frameworks, fw)
	}
	return frameworks, nil
}

// frameworkList joins every supported framework name for help output.
func frameworkList() string {
	names := make([]string, 0, len(prism.AllFrameworks()))
	for _, fw := range prism.AllFrameworks() {
		names = append(names, string(fw))
	}
	return strings.Join(names, ", ")
}

// watchDebounce returns the configured rebuild debounce.
func watchDebounce() time.Duration {
	if d := k.Duration("debounce"); d > 0 {
		return d
	}
	if d := k.Duration("watch.debounce"); d > 0 {
		return d
	}
	return 300 * time.Millisecond
}

// newLogger creates the CLI logger: debug with --verbose, errors only with --quiet.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "prism"})
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		logger.SetLevel(log.ErrorLevel)
	case getBoolWithFallback("verbose", "verbose", false):
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
