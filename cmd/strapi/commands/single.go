package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSingleCommand creates the single command group.
func NewSingleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "single",
		Aliases: []string{"s"},
		Short:   "Manage single-type documents",
		Long:    "Get, update and delete the document of a single type",
	}

	cmd.AddCommand(newSingleGetCommand())
	cmd.AddCommand(newSingleUpdateCommand())
	cmd.AddCommand(newSingleDeleteCommand())

	return cmd
}

func newSingleGetCommand() *cobra.Command {
	var (
		query    queryFlags
		resource resourceFlags
	)

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Get the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := query.build()
			if err != nil {
				return err
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			resp, err := cli.Single(args[0], resource.options(cmd)...).Find(cmd.Context(), params)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), resp, func(table *tableBuilder) {
				fillDocumentTable(table, resp.Data)
			})
		},
	}

	query.register(cmd)
	resource.register(cmd)

	return cmd
}

func newSingleUpdateCommand() *cobra.Command {
	var (
		data     string
		query    queryFlags
		resource resourceFlags
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update the document",
		Long:  "Update the document from JSON given inline, as @file or - for stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readData(data)
			if err != nil {
				return err
			}

			params, err := query.build()
			if err != nil {
				return err
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			resp, err := cli.Single(args[0], resource.options(cmd)...).Update(cmd.Context(), payload, params)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), resp, func(table *tableBuilder) {
				fillDocumentTable(table, resp.Data)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "attributes as JSON, @file or -")
	query.register(cmd)
	resource.register(cmd)

	return cmd
}

func newSingleDeleteCommand() *cobra.Command {
	var (
		force    bool
		query    queryFlags
		resource resourceFlags
	)

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %s?", args[0]))
				if err != nil {
					return err
				}
			}

			params, err := query.build()
			if err != nil {
				return err
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			err = cli.Single(args[0], resource.options(cmd)...).Delete(cmd.Context(), params)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	query.register(cmd)
	resource.register(cmd)

	return cmd
}
