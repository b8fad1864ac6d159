package main

import (
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [patterns]",
	Short: "Scan packages and write the derived code",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dir, err := setup(cmd)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)
		return runGenerate(cmd.Context(), cfg, dir, args)
	},
}

func init() {
	generateCmd.Flags().Int("workers", 0, "parallel generation workers (default GOMAXPROCS)")
	generateCmd.Flags().String("filename", "", "generated file name (default derive_gen.go)")
	generateCmd.Flags().String("header", "", "generated file header comment")
	rootCmd.AddCommand(generateCmd)
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config) {
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		cfg.Workers = n
	}
	if f, _ := cmd.Flags().GetString("filename"); f != "" {
		cfg.Filename = f
	}
	if h, _ := cmd.Flags().GetString("header"); h != "" {
		cfg.Header = h
	}
}
