package commands_test

import (
	"testing"

	"github.com/fivetwenty-io/strapi-client/cmd/strapi/commands"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func subcommandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	return names
}

func TestNewCollectionCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewCollectionCommand()
	assert.Equal(t, "collection", cmd.Use)
	assert.Equal(t, []string{"collections", "c"}, cmd.Aliases)
	assert.ElementsMatch(t, []string{"find", "get", "create", "update", "delete"}, subcommandNames(cmd))
}

func TestNewSingleCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewSingleCommand()
	assert.Equal(t, "single", cmd.Use)
	assert.ElementsMatch(t, []string{"get", "update", "delete"}, subcommandNames(cmd))
}

func TestNewFilesCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewFilesCommand()
	assert.Equal(t, "files", cmd.Use)
	assert.ElementsMatch(t, []string{"list", "get", "upload", "update", "delete"}, subcommandNames(cmd))
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)
	assert.ElementsMatch(t, []string{"show", "set", "unset", "clear"}, subcommandNames(cmd))
}

func TestNewFetchCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewFetchCommand()
	assert.NotNil(t, cmd.Flags().Lookup("method"))
	assert.NotNil(t, cmd.Flags().Lookup("data"))
	assert.NotNil(t, cmd.Flags().Lookup("header"))
}
