package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jatakam/dashatree/internal/config"
	"github.com/jatakam/dashatree/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "dashatree",
	Short: "Dasha period-tree extractor",
	Long: "Dashatree builds hierarchical dasha period trees from birth charts, serializes\n" +
		"them to the classical text layout, and parses that text back into nested JSON\n" +
		"with a verified round trip.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .dashatree.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".dashatree")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("DASHATREE")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig loads the layered configuration and applies flags shared by
// every subcommand.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetBool("quiet"); v {
		cfg.Quiet = true
	}
	return cfg, nil
}

func newPrinter(cfg config.Config) *ui.Printer {
	return &ui.Printer{Quiet: cfg.Quiet}
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		printer.Info("\nshutting down...")
		cancel()
	}()
	return ctx, cancel
}
