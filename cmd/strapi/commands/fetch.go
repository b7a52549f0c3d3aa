package commands

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/spf13/cobra"
)

// NewFetchCommand creates the fetch command, a raw request escape hatch.
func NewFetchCommand() *cobra.Command {
	var (
		method  string
		data    string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "fetch PATH",
		Short: "Send a raw request",
		Long: `Send a request to a path relative to the base URL and print the response body.

Authentication and error mapping apply as for every other command.`,
		Example: `  strapi fetch /articles?populate=*
  strapi fetch -X POST -d '{"data":{"title":"x"}}' /articles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				body   io.Reader
				header = map[string]string{}
			)

			for _, value := range headers {
				key, val, found := strings.Cut(value, ":")
				if !found {
					return fmt.Errorf("%w: %q", constants.ErrInvalidHeader, value)
				}

				header[strings.TrimSpace(key)] = strings.TrimSpace(val)
			}

			if data != "" {
				raw := []byte(data)

				if strings.HasPrefix(data, "@") {
					fileData, err := readLocalFile(data[1:])
					if err != nil {
						return err
					}

					raw = fileData
				}

				body = bytes.NewReader(raw)

				if _, ok := header[constants.HeaderContentType]; !ok {
					header[constants.HeaderContentType] = constants.ContentTypeJSON
				}
			}

			cli, err := createClient()
			if err != nil {
				return err
			}

			resp, err := cli.Fetch(cmd.Context(), strings.ToUpper(method), args[0], body, header)
			if resp != nil {
				_, _ = cmd.OutOrStdout().Write(resp.Body)

				if len(resp.Body) > 0 && !bytes.HasSuffix(resp.Body, []byte("\n")) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method")
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body, or @file")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header, 'Name: value'")

	return cmd
}
