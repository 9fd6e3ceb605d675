package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Swing-trading stock screener",
	Long: `Screens a stock universe for 1-2 week swing setups.

Each symbol goes through cheap metadata filters, a daily history fetch,
indicator computation, a technical gate, factor scoring and risk levels.
Survivors are ranked by total score.

Examples:
  screener run --symbols AAPL,MSFT,NVDA
  screener run --universe data/nasdaq.csv --profile profit --top 20
  screener analyze AAPL
  screener serve`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfig, "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (json|console)")
}
