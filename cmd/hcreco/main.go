// Command hcreco reconstructs charm-meson candidates from collision events
// and writes them as flat per-event tables.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	profileDir string

	prof interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:           "hcreco",
	Short:         "Charm-meson candidate reconstruction",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		if profileDir != "" && prof == nil {
			prof = profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile", "", "write a CPU profile into this directory")
}

// stopProfile flushes the CPU profile, if one is running.
func stopProfile() {
	if prof != nil {
		prof.Stop()
		prof = nil
	}
}

func main() {
	err := rootCmd.Execute()
	stopProfile()
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
