// Command largexml analyzes and patches very large XML documents from
// the command line.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andaru/largexml/config"
	"github.com/andaru/largexml/service"
)

var rootCmd = &cobra.Command{
	Use:   "largexml",
	Short: "Streaming analysis and patching of very large XML documents",
	Long: `largexml scans XML documents of any size in a single bounded-memory
pass, reports structural and schema problems with precise locations,
and records byte-offset patches that are applied atomically.`,
	SilenceUsage: true,
}

var (
	flagConfig   string
	flagStateDir string
)

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "directory for persisted patch state")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(navigateCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(patchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration from flags, falling back to a
// per-user state directory so recorded patches survive between runs.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if flagStateDir != "" {
		cfg.Patch.StateDir = flagStateDir
	}
	if cfg.Patch.StateDir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			cfg.Patch.StateDir = filepath.Join(base, "largexml")
		}
	}
	return cfg, nil
}

func newService() (*service.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return service.New(cfg)
}
