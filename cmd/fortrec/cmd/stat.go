package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/fortfile"
)

// statCmd represents the stat command
var statCmd = &cobra.Command{
	Use:   "stat <file>",
	Short: "Summarize the records of a file",
	Long: `Scan a record file end to end and print a summary: record count,
body byte totals and the smallest and largest record.

Example:
  fortrec stat data.bin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := fileOptions(cmd, fortfile.Read)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		var records, bodyBytes, minLen, maxLen int64
		err = fortfile.With(args[0], opts, func(f *fortfile.File) error {
			for {
				v, err := f.ReadRecord()
				if errors.Is(err, codec.ErrEndOfFile) {
					return nil
				}
				if err != nil {
					return err
				}
				n := v.Nbytes()
				if records == 0 || n < minLen {
					minLen = n
				}
				if n > maxLen {
					maxLen = n
				}
				records++
				bodyBytes += n
			}
		})
		if err != nil {
			fmt.Printf("Error scanning %s: %v\n", args[0], err)
			return
		}

		fmt.Printf("File:         %s\n", args[0])
		fmt.Printf("Records:      %d\n", records)
		fmt.Printf("Body bytes:   %d\n", bodyBytes)
		if records > 0 {
			fmt.Printf("Smallest:     %d bytes\n", minLen)
			fmt.Printf("Largest:      %d bytes\n", maxLen)
		}
	},
}

func init() {
	rootCmd.AddCommand(statCmd)
}
