package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/strapi-client/cmd/strapi/commands"
	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "strapi",
	Short: "Strapi v5 REST API CLI",
	Long: `A command-line interface for the Strapi v5 REST content API.

It manages collection-type and single-type documents and media library
files, authenticating with an API token or a users-permissions account.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return commands.PrintStats(os.Stderr)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.strapi/config.yml)")
	rootCmd.PersistentFlags().StringP("base-url", "u", "", "content API base URL, e.g. http://localhost:1337/api")
	rootCmd.PersistentFlags().StringP("token", "t", "", "API token or JWT")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().Duration("timeout", constants.DefaultHTTPTimeout, "HTTP timeout")
	rootCmd.PersistentFlags().Duration("upload-timeout", constants.UploadHTTPTimeout, "HTTP timeout of files commands")
	rootCmd.PersistentFlags().Int("retries", 0, "retries on connection errors and 5xx responses")
	rootCmd.PersistentFlags().Bool("debug", false, "log HTTP requests and responses to stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored log output")
	rootCmd.PersistentFlags().Bool("stats", false, "print request statistics to stderr when done")
	rootCmd.PersistentFlags().String("cache-nats-url", "", "NATS server URL for a shared response cache, e.g. nats://localhost:4222")
	rootCmd.PersistentFlags().Duration("cache-ttl", constants.DefaultCacheTTL, "lifetime of cached responses")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("upload_timeout", rootCmd.PersistentFlags().Lookup("upload-timeout"))
	_ = viper.BindPFlag("retries", rootCmd.PersistentFlags().Lookup("retries"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("stats", rootCmd.PersistentFlags().Lookup("stats"))
	_ = viper.BindPFlag("cache_nats_url", rootCmd.PersistentFlags().Lookup("cache-nats-url"))
	_ = viper.BindPFlag("cache_ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewLogoutCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewCollectionCommand())
	rootCmd.AddCommand(commands.NewSingleCommand())
	rootCmd.AddCommand(commands.NewFilesCommand())
	rootCmd.AddCommand(commands.NewFetchCommand())
}

func initConfig() {
	// A .env in the working directory may provide STRAPI_* variables.
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".strapi")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("STRAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil && viper.GetBool("debug") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
