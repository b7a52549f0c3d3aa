package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// tableBuilder collects rows before they are handed to tablewriter.
type tableBuilder struct {
	headers []string
	rows    [][]string
	footer  string
}

func (t *tableBuilder) header(columns ...string) {
	t.headers = columns
}

func (t *tableBuilder) row(values ...string) {
	t.rows = append(t.rows, values)
}

func (t *tableBuilder) render(out io.Writer) error {
	table := tablewriter.NewWriter(out)
	headers := make([]any, 0, len(t.headers))
	for _, column := range t.headers {
		headers = append(headers, column)
	}

	table.Header(headers...)

	for _, row := range t.rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if t.footer != "" {
		_, _ = fmt.Fprintln(out, t.footer)
	}

	return nil
}

// printOutput writes value in the format selected by --output. fill is only
// called for table output.
func printOutput(out io.Writer, value interface{}, fill func(table *tableBuilder)) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(constants.JSONIndentSize)

		return encoder.Encode(toYAMLValue(value))
	case constants.FormatTable, "":
		table := &tableBuilder{}
		fill(table)

		return table.render(out)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, viper.GetString("output"))
	}
}

// toYAMLValue round-trips value through JSON so YAML output uses the same
// field names as the API.
func toYAMLValue(value interface{}) interface{} {
	raw, err := json.Marshal(value)
	if err != nil {
		return value
	}

	var generic interface{}

	err = json.Unmarshal(raw, &generic)
	if err != nil {
		return value
	}

	return generic
}

// documentColumns picks the attribute columns of a document table: every
// scalar attribute except the identifiers and timestamps, sorted by name.
func documentColumns(documents []strapi.Document) []string {
	seen := map[string]bool{}

	for _, document := range documents {
		for key, value := range document {
			switch key {
			case "id", "documentId", "createdAt", "updatedAt", "publishedAt", "locale":
				continue
			}

			switch value.(type) {
			case map[string]interface{}, []interface{}:
				continue
			}

			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}

	sort.Strings(columns)

	return columns
}

func fillDocumentsTable(table *tableBuilder, documents []strapi.Document) {
	columns := documentColumns(documents)

	table.header(append([]string{"ID", "Document ID"}, columns...)...)

	for _, document := range documents {
		row := []string{formatCell(document["id"]), document.DocumentID()}
		for _, column := range columns {
			row = append(row, formatCell(document[column]))
		}

		table.row(row...)
	}
}

func fillDocumentTable(table *tableBuilder, document strapi.Document) {
	keys := make([]string, 0, len(document))
	for key := range document {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table.header("Attribute", "Value")

	for _, key := range keys {
		table.row(key, formatCell(document[key]))
	}
}

func fillFilesTable(table *tableBuilder, files []strapi.File) {
	table.header("ID", "Name", "Mime", "Size (KB)", "URL")

	for _, file := range files {
		table.row(
			strconv.FormatInt(file.ID, 10),
			truncate(file.Name, constants.StringTruncationLength),
			file.Mime,
			strconv.FormatFloat(file.Size, 'f', -1, 64),
			truncate(file.URL, constants.StringTruncationLength),
		)
	}
}

func fillFileTable(table *tableBuilder, file *strapi.File) {
	table.header("Property", "Value")
	table.row("ID", strconv.FormatInt(file.ID, 10))
	table.row("Document ID", file.DocumentID)
	table.row("Name", file.Name)
	table.row("Alternative Text", derefString(file.AlternativeText))
	table.row("Caption", derefString(file.Caption))
	table.row("Mime", file.Mime)
	table.row("Size (KB)", strconv.FormatFloat(file.Size, 'f', -1, 64))
	table.row("URL", file.URL)
	table.row("Provider", file.Provider)
	table.row("Created", file.CreatedAt.Format("2006-01-02 15:04:05"))
	table.row("Updated", file.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func paginationFooter(meta strapi.ResponseMeta) string {
	pagination := meta.Pagination
	if pagination == nil {
		return ""
	}

	if pagination.PageCount > 0 {
		return fmt.Sprintf("Page %d of %d, %d total", pagination.Page, pagination.PageCount, pagination.Total)
	}

	return fmt.Sprintf("Showing %d from %d, %d total", pagination.Limit, pagination.Start, pagination.Total)
}

func formatCell(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		return truncate(typed, constants.StringTruncationLength)
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return truncate(string(raw), constants.StringTruncationLength)
}

func derefString(value *string) string {
	if value == nil {
		return constants.NotAvailable
	}

	return *value
}
