package commands

import (
	"bufio"
	"fmt"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/strapi-client/internal/auth"
	"github.com/fivetwenty-io/strapi-client/internal/client"
	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		identifier string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a users-permissions account",
		Long: `Log in through the users-permissions plugin and store the returned JWT.

The JWT is used as bearer token by later commands until it expires.
The password is never stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())

			if identifier == "" {
				identifier = viper.GetString("identifier")
			}

			if identifier == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Username or email: ")
				identifier, _ = reader.ReadString('\n')
				identifier = strings.TrimSpace(identifier)
			}

			if password == "" {
				password = viper.GetString("password")
			}

			if password == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(bytePassword)

				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}

			if identifier == "" || password == "" {
				return constants.ErrIdentifierRequired
			}

			config, err := buildClientConfig()
			if err != nil {
				return err
			}

			config.Auth = nil

			var persistErr error

			provider := auth.NewPersistingProvider(
				auth.NewUsersPermissionsProvider(identifier, password),
				NewConfigPersister(),
				config.BaseURL,
				func(err error) { persistErr = err },
			)

			cli := client.NewWithProvider(config, provider)

			err = cli.Authenticate(cmd.Context())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if persistErr != nil {
				return fmt.Errorf("failed to save configuration: %w", persistErr)
			}

			saved, err := loadConfig()
			if err == nil && saved.Identifier != identifier {
				saved.Identifier = identifier
				_ = saveConfig(saved)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", config.BaseURL, identifier)

			return nil
		},
	}

	cmd.Flags().StringVarP(&identifier, "identifier", "i", "", "username or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted, or STRAPI_PASSWORD)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			config.Token = ""
			config.TokenExpiresAt = nil

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}
