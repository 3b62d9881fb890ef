package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/fortrec/pkg/api"
)

var (
	serveListen  string
	serveDataDir string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve record files over HTTP",
	Long: `Start the read-only inspection server. Record files under the data
directory are exposed as JSON at /v1/files/{name}/records and
/v1/files/{name}/stat, with Prometheus metrics at /metrics.

Example:
  fortrec serve --listen 127.0.0.1:8080 --data-dir ./data`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		order, err := cfg.Order()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		if serveListen == "" {
			serveListen = cfg.Listen
		}
		if serveDataDir == "" {
			serveDataDir = cfg.DataDir
		}

		server := api.ServerConfig{
			Listen:      serveListen,
			DataDir:     serveDataDir,
			MarkerWidth: cfg.MarkerWidth,
			Order:       order,
		}
		if err := api.StartServer(server); err != nil {
			fmt.Printf("Error starting server: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "Directory holding record files (default from config)")
}
