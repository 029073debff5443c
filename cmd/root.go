package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/qsynth/internal/config"
)

var (
	cfgFile string
	Version = "0.4.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════╗",
		"║    ██████╗ ███████╗██╗   ██╗███╗   ██╗████████╗██╗  ██╗ ║",
		"║   ██╔═══██╗██╔════╝╚██╗ ██╔╝████╗  ██║╚══██╔══╝██║  ██║ ║",
		"║   ██║   ██║███████╗ ╚████╔╝ ██╔██╗ ██║   ██║   ███████║ ║",
		"║   ██║▄▄ ██║╚════██║  ╚██╔╝  ██║╚██╗██║   ██║   ██╔══██║ ║",
		"║   ╚██████╔╝███████║   ██║   ██║ ╚████║   ██║   ██║  ██║ ║",
		"║    ╚══▀▀═╝ ╚══════╝   ╚═╝   ╚═╝  ╚═══╝   ╚═╝   ╚═╝  ╚═╝ ║",
		"║                                                      ║",
		"║        🧪 Declarative Synthetic Data Generator 🧪     ║",
		"╚══════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                   ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "qsynth",
	Short: "Generate reproducible synthetic datasets from YAML models",
	Long: `
qsynth generates synthetic tables from a declarative YAML model and feeds them
to experiments: files (csv, json, parquet, avro, sql, sqlite), diagrams,
LLM prompts, relational databases and MongoDB.

Schemas may reference each other; referenced schemas are generated first and
every run is reproducible from its seed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("qsynth version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

// Execute runs the CLI; an interrupt cancels running experiments.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().Int64("seed", 0, "Base seed of the run (0 picks one)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Print per-schema progress")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")

	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("qsynth.config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "⚠️  Could not read config file %s: %v\n", cfgFile, err)
	}
}

// loadConfig returns the validated configuration of the current invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
