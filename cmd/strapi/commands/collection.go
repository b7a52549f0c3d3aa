package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewCollectionCommand creates the collection command group.
func NewCollectionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"collections", "c"},
		Short:   "Manage collection-type documents",
		Long:    "List, get, create, update and delete documents of a collection type",
	}

	cmd.AddCommand(newCollectionFindCommand())
	cmd.AddCommand(newCollectionGetCommand())
	cmd.AddCommand(newCollectionCreateCommand())
	cmd.AddCommand(newCollectionUpdateCommand())
	cmd.AddCommand(newCollectionDeleteCommand())

	return cmd
}

func newCollectionFindCommand() *cobra.Command {
	var (
		query    queryFlags
		resource resourceFlags
	)

	cmd := &cobra.Command{
		Use:     "find NAME",
		Aliases: []string{"list", "ls"},
		Short:   "List documents",
		Long:    "List the documents of a collection type, e.g. 'strapi collection find articles --sort createdAt:desc'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := query.build()
			if err != nil {
				return err
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			resp, err := cli.Collection(args[0], resource.options(cmd)...).Find(cmd.Context(), params)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), resp, func(table *tableBuilder) {
				fillDocumentsTable(table, resp.Data)
				table.footer = paginationFooter(resp.Meta)
			})
		},
	}

	query.register(cmd)
	resource.register(cmd)

	return cmd
}

func newCollectionGetCommand() *cobra.Command {
	var (
		query    queryFlags
		resource resourceFlags
	)

	cmd := &cobra.Command{
		Use:   "get NAME DOCUMENT_ID",
		Short: "Get a document",
		Long:  "Get a single document of a collection type by its document ID",
		Args:  cobra.ExactArgs(2), //nolint:mnd // name and id
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := query.build()
			if err != nil {
				return err
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			resp, err := cli.Collection(args[0], resource.options(cmd)...).FindOne(cmd.Context(), args[1], params)
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

func newCollectionCreateCommand() *cobra.Command {
	var (
		data     string
		query    queryFlags
		resource resourceFlags
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a document",
		Long:  "Create a document from JSON given inline, as @file or - for stdin",
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

			resp, err := cli.Collection(args[0], resource.options(cmd)...).Create(cmd.Context(), payload, params)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), resp, func(table *tableBuilder) {
				fillDocumentTable(table, resp.Data)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "document attributes as JSON, @file or -")
	query.register(cmd)
	resource.register(cmd)

	return cmd
}

func newCollectionUpdateCommand() *cobra.Command {
	var (
		data     string
		query    queryFlags
		resource resourceFlags
	)

	cmd := &cobra.Command{
		Use:   "update NAME DOCUMENT_ID",
		Short: "Update a document",
		Long:  "Update a document from JSON given inline, as @file or - for stdin",
		Args:  cobra.ExactArgs(2), //nolint:mnd // name and id
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

			resp, err := cli.Collection(args[0], resource.options(cmd)...).Update(cmd.Context(), args[1], payload, params)
			if err != nil {
				return err
			}

			return printOutput(cmd.OutOrStdout(), resp, func(table *tableBuilder) {
				fillDocumentTable(table, resp.Data)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "attributes to change as JSON, @file or -")
	query.register(cmd)
	resource.register(cmd)

	return cmd
}

func newCollectionDeleteCommand() *cobra.Command {
	var (
		force       bool
		concurrency int
		query       queryFlags
		resource    resourceFlags
	)

	cmd := &cobra.Command{
		Use:   "delete NAME DOCUMENT_ID...",
		Short: "Delete documents",
		Long:  "Delete one or more documents of a collection type. Several IDs are deleted concurrently.",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // name and at least one id
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ids := args[0], args[1:]

			if !force {
				err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Delete %d %s document(s)?", len(ids), name))
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

			manager := cli.Collection(name, resource.options(cmd)...)

			deleted, err := deleteDocuments(cmd, manager, ids, params, concurrency)
			for _, id := range deleted {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", name, id)
			}

			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "maximum number of parallel deletes")
	query.register(cmd)
	resource.register(cmd)

	return cmd
}

// deleteDocuments deletes ids with at most limit requests in flight. It
// returns the ids that were deleted, in argument order, along with the first
// error.
func deleteDocuments(cmd *cobra.Command, manager strapi.CollectionTypeManager, ids []string,
	params *strapi.QueryParams, limit int,
) ([]string, error) {
	if limit < 1 {
		limit = 1
	}

	done := make([]bool, len(ids))

	group, ctx := errgroup.WithContext(cmd.Context())
	group.SetLimit(limit)

	for i, id := range ids {
		i, id := i, id

		group.Go(func() error {
			err := manager.Delete(ctx, id, params)
			if err != nil {
				return err //nolint:wrapcheck // already carries the document id
			}

			done[i] = true

			return nil
		})
	}

	err := group.Wait()

	deleted := make([]string, 0, len(ids))

	for i, id := range ids {
		if done[i] {
			deleted = append(deleted, id)
		}
	}

	return deleted, err //nolint:wrapcheck // already carries the document id
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) error {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)

	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))

	if answer != "y" && answer != constants.ConfirmationYes {
		return constants.ErrNotConfirmed
	}

	return nil
}
