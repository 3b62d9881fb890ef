package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/fortrec/pkg/fortfile"
	"github.com/ssargent/fortrec/pkg/index"
)

var indexDir string

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and query record offset indexes",
}

// indexBuildCmd represents the index build command
var indexBuildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Build an offset index for a record file",
	Long: `Scan a record file and store the byte offset and body length of
every record so positions can be looked up without rescanning.

Example:
  fortrec index build data.bin --index-dir ./data/index`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := fileOptions(cmd, fortfile.Read)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		ix, err := index.Open(indexDir)
		if err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			return
		}
		defer ix.Close()

		meta, err := ix.Build(args[0], opts)
		if err != nil {
			fmt.Printf("Error building index: %v\n", err)
			return
		}
		fmt.Printf("Indexed %d records from %s (build %s)\n", meta.Records, meta.Source, meta.BuildID)
	},
}

// indexLookupCmd represents the index lookup command
var indexLookupCmd = &cobra.Command{
	Use:   "lookup <ordinal>",
	Short: "Look up a record's offset by ordinal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var n int64
		if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
			fmt.Printf("Error: %q is not a record ordinal\n", args[0])
			return
		}

		ix, err := index.Open(indexDir)
		if err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			return
		}
		defer ix.Close()

		entry, err := ix.Lookup(n)
		if err != nil {
			fmt.Printf("Error looking up record %d: %v\n", n, err)
			return
		}
		fmt.Printf("Record %d: offset %d, body %d bytes\n", n, entry.Offset, entry.Length)
	},
}

// indexInfoCmd represents the index info command
var indexInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what an index was built from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ix, err := index.Open(indexDir)
		if err != nil {
			fmt.Printf("Error opening index: %v\n", err)
			return
		}
		defer ix.Close()

		meta, err := ix.Meta()
		if err != nil {
			fmt.Printf("Error reading index metadata: %v\n", err)
			return
		}
		fmt.Printf("Source:        %s\n", meta.Source)
		fmt.Printf("Build:         %s\n", meta.BuildID)
		fmt.Printf("Records:       %d\n", meta.Records)
		fmt.Printf("Marker width:  %d\n", meta.MarkerWidth)
		fmt.Printf("Byte order:    %s\n", meta.ByteOrder)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexLookupCmd)
	indexCmd.AddCommand(indexInfoCmd)
	indexCmd.PersistentFlags().StringVar(&indexDir, "index-dir", "./data/index", "Directory holding the index store")
}
