package commands

import (
	"github.com/spf13/cobra"
)

// cliVersion is reported in the User-Agent of every request.
var cliVersion = "dev"

type versionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Built   string `json:"built"   yaml:"built"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	cliVersion = version

	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the Strapi CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			return printOutput(cmd.OutOrStdout(), info, func(table *tableBuilder) {
				table.header("Property", "Value")
				table.row("Version", version)
				table.row("Commit", commit)
				table.row("Built", date)
			})
		},
	}
}
