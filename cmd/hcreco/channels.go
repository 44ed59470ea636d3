package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/hcreco/internal/config"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Print the effective channel configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg.RecoChannels())
		if err != nil {
			return fmt.Errorf("YAML marshal failed: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
}
