package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/fortfile"
)

var writeSpec string

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write <file> <value>...",
	Short: "Write values as one record",
	Long: `Write the given values to a new file as a single record.

A single type code writes a homogeneous record of all values; a comma
separated list writes one value per code as a heterogeneous record.

Example:
  fortrec write data.bin 1 2 3 --spec i4
  fortrec write data.bin 1.5 hello --spec f8,S5`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := fileOptions(cmd, fortfile.Write)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		specs, err := parseSpecs(writeSpec)
		if err != nil {
			fmt.Printf("Error parsing spec: %v\n", err)
			return
		}
		if len(specs) == 0 {
			fmt.Println("Error: --spec is required")
			return
		}

		raw := args[1:]
		err = fortfile.With(args[0], opts, func(f *fortfile.File) error {
			if len(specs) == 1 {
				values, err := parseValues(raw, specs[0])
				if err != nil {
					return err
				}
				if len(values) == 1 {
					return f.WriteValue(values[0], specs[0])
				}
				return f.WriteSlice(values, specs[0])
			}

			if len(raw) != len(specs) {
				return fmt.Errorf("%d values for %d type codes", len(raw), len(specs))
			}
			values := make([]any, len(raw))
			for i, s := range raw {
				parsed, err := parseValues([]string{s}, specs[i])
				if err != nil {
					return err
				}
				values[i] = parsed[0]
			}
			return f.WriteValues(values, specs)
		})
		if err != nil {
			fmt.Printf("Error writing record: %v\n", err)
			return
		}
		fmt.Printf("Wrote 1 record to %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeSpec, "spec", "", "Comma separated type codes, e.g. i4 or f8,S5")
}

// parseValues converts command line strings to the element type a code names
func parseValues(raw []string, spec dtype.Spec) ([]any, error) {
	desc, err := dtype.Resolve(spec)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(raw))
	for i, s := range raw {
		switch desc.Kind {
		case dtype.Int:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q is not an integer", s)
			}
			values[i] = n
		case dtype.Uint:
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q is not an unsigned integer", s)
			}
			values[i] = n
		case dtype.Float:
			x, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q is not a number", s)
			}
			values[i] = x
		default:
			values[i] = s
		}
	}
	return values, nil
}
