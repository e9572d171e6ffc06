package skycast

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skycast-ai/skycast/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
	version string = "dev"
)

var RootCmd = &cobra.Command{
	Use:   "skycast",
	Short: "Skycast - routed weather and PDF Q&A",
	Long: `Skycast answers natural-language questions by routing each query to one
of two branches: a live weather lookup against OpenWeatherMap, or
retrieval-augmented Q&A over a PDF indexed into Qdrant.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		return nil
	},
}

func Execute() error {
	return RootCmd.Execute()
}

// GetRootCmd returns the root cobra command for testing purposes.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
	RootCmd.Version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Skycast version %s\n", version)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file path (default: ~/.skycast/skycast.toml or ./skycast.toml)")

	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(askCmd)
	RootCmd.AddCommand(indexCmd)
	RootCmd.AddCommand(serveCmd)
}
