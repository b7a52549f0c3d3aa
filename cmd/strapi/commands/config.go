package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the persisted CLI configuration.
type Config struct {
	BaseURL        string     `json:"base_url,omitempty"         yaml:"base_url,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	Identifier     string     `json:"identifier,omitempty"       yaml:"identifier,omitempty"`
	Output         string     `json:"output,omitempty"           yaml:"output,omitempty"`
	Timeout        string     `json:"timeout,omitempty"          yaml:"timeout,omitempty"`
	Retries        int        `json:"retries,omitempty"          yaml:"retries,omitempty"`
	Debug          bool       `json:"debug,omitempty"            yaml:"debug,omitempty"`
}

// configKeys lists the keys accepted by 'config set' and 'config unset'.
var configKeys = []string{"base_url", "token", "identifier", "output", "timeout", "retries", "debug"}

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the Strapi CLI configuration stored in $HOME/.strapi/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			masked := *config
			if masked.Token != "" {
				masked.Token = constants.MaskedSecret
			}

			return printOutput(cmd.OutOrStdout(), masked, func(table *tableBuilder) {
				table.header("Key", "Value")
				table.row("base_url", valueOrNA(masked.BaseURL))
				table.row("token", valueOrNA(masked.Token))

				expires := constants.NotAvailable
				if masked.TokenExpiresAt != nil {
					expires = masked.TokenExpiresAt.Format(time.RFC3339)
				}

				table.row("token_expires_at", expires)
				table.row("identifier", valueOrNA(masked.Identifier))
				table.row("output", valueOrNA(masked.Output))
				table.row("timeout", valueOrNA(masked.Timeout))
				table.row("retries", strconv.Itoa(masked.Retries))
				table.row("debug", strconv.FormatBool(masked.Debug))
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "set KEY VALUE",
		Short:     "Set a configuration value",
		Long:      "Set a configuration value. Keys: base_url, token, identifier, output, timeout, retries, debug",
		Args:      cobra.ExactArgs(2), //nolint:mnd // key and value
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			err = config.set(args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "unset KEY",
		Short:     "Unset a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			err = config.unset(args[0])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared configuration")

			return nil
		},
	}
}

func (c *Config) set(key, value string) error {
	switch key {
	case "base_url":
		c.BaseURL = value
	case "token":
		c.Token = value
		c.TokenExpiresAt = nil
	case "identifier":
		c.Identifier = value
	case "output":
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		default:
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, value)
		}

		c.Output = value
	case "timeout":
		_, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}

		c.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries %q: %w", value, err)
		}

		c.Retries = retries
	case "debug":
		debug, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid debug %q: %w", value, err)
		}

		c.Debug = debug
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func (c *Config) unset(key string) error {
	switch key {
	case "base_url":
		c.BaseURL = ""
	case "token":
		c.Token = ""
		c.TokenExpiresAt = nil
	case "identifier":
		c.Identifier = ""
	case "output":
		c.Output = ""
	case "timeout":
		c.Timeout = ""
	case "retries":
		c.Retries = 0
	case "debug":
		c.Debug = false
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// configFilePath returns the file viper read, or the default location.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".strapi", "config.yml"), nil
}

// loadConfig reads the configuration file. A missing file yields an empty
// configuration.
func loadConfig() (*Config, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	// #nosec G304 -- configFile is the CLI's own configuration file
	data, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
