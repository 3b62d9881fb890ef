/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/fortrec/pkg/config"
	"github.com/ssargent/fortrec/pkg/fortfile"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fortrec",
	Short: "fortrec - Fortran unformatted record file tool",
	Long: `fortrec reads, writes, indexes and serves files of Fortran-style
unformatted sequential records: binary records framed by a leading and
trailing byte-count marker.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: ~/.config/fortrec/config.yaml if present)")
	rootCmd.PersistentFlags().IntP("marker-width", "m", 0, "Record marker width in bytes, 4 or 8 (default 4)")
	rootCmd.PersistentFlags().StringP("byte-order", "b", "", "Byte order: native, little or big (default native)")
}

// loadConfig resolves the effective configuration: file values first,
// then flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path, _ := cmd.Flags().GetString("config")
	if path == "" && config.ConfigExists(config.GetDefaultConfigPath()) {
		path = config.GetDefaultConfigPath()
	}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if width, _ := cmd.Flags().GetInt("marker-width"); width != 0 {
		cfg.MarkerWidth = width
	}
	if order, _ := cmd.Flags().GetString("byte-order"); order != "" {
		cfg.ByteOrder = order
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fileOptions builds the handle options for a command invocation
func fileOptions(cmd *cobra.Command, mode fortfile.Mode) (fortfile.Options, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fortfile.Options{}, err
	}
	order, err := cfg.Order()
	if err != nil {
		return fortfile.Options{}, err
	}
	return fortfile.Options{Mode: mode, MarkerWidth: cfg.MarkerWidth, Order: order}, nil
}
