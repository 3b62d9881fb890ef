package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/fortrec/pkg/codec"
	"github.com/ssargent/fortrec/pkg/dtype"
	"github.com/ssargent/fortrec/pkg/fortfile"
)

var (
	dumpSpec  string
	dumpLimit int
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Read and print the records of a file",
	Long: `Read records sequentially and print one line per record.

Without --spec each record comes back as raw bytes. With a single type
code the record is decoded as a homogeneous array; with a comma
separated list it is decoded as one value per code.

Example:
  fortrec dump data.bin --spec i4
  fortrec dump data.bin --spec f8,f8,S4 --limit 10`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := fileOptions(cmd, fortfile.Read)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		specs, err := parseSpecs(dumpSpec)
		if err != nil {
			fmt.Printf("Error parsing spec: %v\n", err)
			return
		}

		err = fortfile.With(args[0], opts, func(f *fortfile.File) error {
			for n := 0; dumpLimit == 0 || n < dumpLimit; n++ {
				v, err := f.ReadRecord(specs...)
				if errors.Is(err, codec.ErrEndOfFile) {
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Printf("%d: %s\n", n, formatValue(v))
			}
			return nil
		})
		if err != nil {
			fmt.Printf("Error reading records: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVar(&dumpSpec, "spec", "", "Comma separated type codes, e.g. i4 or f8,S4")
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0, "Stop after this many records (0 = all)")
}

// parseSpecs resolves a comma separated list of type codes
func parseSpecs(raw string) ([]dtype.Spec, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	specs := make([]dtype.Spec, len(parts))
	for i, p := range parts {
		code := dtype.Code(strings.TrimSpace(p))
		if _, err := dtype.Resolve(code); err != nil {
			return nil, err
		}
		specs[i] = code
	}
	return specs, nil
}

// formatValue renders a decoded record for terminal output
func formatValue(v codec.Value) string {
	if v.IsScalar() {
		if b, ok := v.Bytes(); ok {
			return fmt.Sprintf("%q", b)
		}
		return fmt.Sprintf("%v", v.Scalar())
	}
	if s := v.Struct(); s != nil {
		fields := make([]string, 0, len(s.Names()))
		for _, name := range s.Names() {
			fields = append(fields, fmt.Sprintf("%s=%s", name, formatArray(s.Field(name))))
		}
		return strings.Join(fields, " ")
	}
	return formatArray(v.Array())
}

func formatArray(a *codec.Array) string {
	switch a.Desc().Kind {
	case dtype.Int:
		return fmt.Sprintf("%v", a.Ints())
	case dtype.Uint:
		return fmt.Sprintf("%v", a.Uints())
	case dtype.Float:
		return fmt.Sprintf("%v", a.Floats())
	default:
		parts := make([]string, a.Len())
		for i, b := range a.Raw() {
			parts[i] = fmt.Sprintf("%q", b)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
}
