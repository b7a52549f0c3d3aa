package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fivetwenty-io/strapi-client/internal/client"
	"github.com/fivetwenty-io/strapi-client/internal/constants"
	"github.com/fivetwenty-io/strapi-client/pkg/strapi"
	"github.com/fivetwenty-io/strapi-client/pkg/strapiclient"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// queryFlags holds the flags shared by every command that sends query
// parameters.
type queryFlags struct {
	query    string
	filters  string
	sort     []string
	fields   []string
	populate []string
	page     int
	pageSize int
	locale   string
	status   string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.query, "query", "", "raw query parameters as a JSON object")
	cmd.Flags().StringVar(&f.filters, "filters", "", "filters as a JSON object, e.g. '{\"title\":{\"$contains\":\"go\"}}'")
	cmd.Flags().StringSliceVar(&f.sort, "sort", nil, "sort fields, e.g. createdAt:desc")
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "fields to select")
	cmd.Flags().StringSliceVar(&f.populate, "populate", nil, "relations to populate, or *")
	cmd.Flags().IntVar(&f.page, "page", 0, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "page size")
	cmd.Flags().StringVar(&f.locale, "locale", "", "locale")
	cmd.Flags().StringVar(&f.status, "status", "", "document status (draft or published)")
}

// build turns the flags into query parameters. Keys from --query come first,
// then the dedicated flags in a fixed order.
func (f *queryFlags) build() (*strapi.QueryParams, error) {
	params := strapi.NewQueryParams()

	if f.query != "" {
		parsed, err := strapi.ParseQueryParamsJSON([]byte(f.query))
		if err != nil {
			return nil, fmt.Errorf("parsing --query: %w", err)
		}

		params = parsed
	}

	if f.filters != "" {
		parsed, err := strapi.ParseQueryParamsJSON([]byte(f.filters))
		if err != nil {
			return nil, fmt.Errorf("parsing --filters: %w", err)
		}

		params.WithFilters(parsed.Fields())
	}

	if len(f.sort) > 0 {
		params.WithSort(f.sort...)
	}

	if len(f.fields) > 0 {
		params.WithFields(f.fields...)
	}

	switch len(f.populate) {
	case 0:
	case 1:
		params.WithPopulate(f.populate[0])
	default:
		params.WithPopulate(f.populate)
	}

	if f.page > 0 || f.pageSize > 0 {
		pagination := strapi.Object{}
		if f.page > 0 {
			pagination = pagination.Set("page", f.page)
		}

		if f.pageSize > 0 {
			pagination = pagination.Set("pageSize", f.pageSize)
		}

		params.Set("pagination", pagination)
	}

	if f.locale != "" {
		params.WithLocale(f.locale)
	}

	if f.status != "" {
		params.WithStatus(f.status)
	}

	err := params.Validate()
	if err != nil {
		return nil, err
	}

	return params, nil
}

// resourceFlags holds the path and plugin overrides of a resource.
type resourceFlags struct {
	path         string
	plugin       string
	pluginPrefix string
}

func (f *resourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "path", "", "explicit root path, overrides name and plugin")
	cmd.Flags().StringVar(&f.plugin, "plugin", "", "owning plugin, used as path prefix")
	cmd.Flags().StringVar(&f.pluginPrefix, "plugin-prefix", "", "path prefix of the plugin (empty for none), requires --plugin")

	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		return f.validate(cmd)
	}
}

func (f *resourceFlags) validate(cmd *cobra.Command) error {
	if cmd.Flags().Changed("plugin-prefix") && f.plugin == "" {
		return constants.ErrPrefixWithoutPlugin
	}

	return nil
}

func (f *resourceFlags) options(cmd *cobra.Command) []strapi.ResourceOption {
	var opts []strapi.ResourceOption

	if f.path != "" {
		opts = append(opts, strapi.WithPath(f.path))
	}

	prefixSet := cmd.Flags().Changed("plugin-prefix")

	switch {
	case f.plugin != "" && prefixSet:
		opts = append(opts, strapi.WithPluginPrefix(f.plugin, f.pluginPrefix))
	case f.plugin != "":
		opts = append(opts, strapi.WithPlugin(f.plugin))
	}

	return opts
}

// readData decodes a JSON payload given inline, as @file, or as - for stdin.
func readData(value string) (interface{}, error) {
	if value == "" {
		return nil, constants.ErrDataRequired
	}

	var raw []byte

	switch {
	case value == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		raw = data
	case strings.HasPrefix(value, "@"):
		data, err := readLocalFile(value[1:])
		if err != nil {
			return nil, err
		}

		raw = data
	default:
		raw = []byte(value)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var data interface{}

	err := decoder.Decode(&data)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON data: %w", err)
	}

	return data, nil
}

func readLocalFile(path string) ([]byte, error) {
	if strings.Contains(filepath.ToSlash(path), "../") {
		return nil, fmt.Errorf("%w: %s", constants.ErrDirectoryTraversalDetected, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", constants.ErrNotRegularFile, path)
	}

	// #nosec G304 -- path is supplied by the user running the CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return data, nil
}

// newLogger builds the CLI logger; debug output goes to stderr.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("debug") {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    viper.GetBool("no_color"),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// buildClientConfig assembles the library configuration from viper.
func buildClientConfig() (*strapi.Config, error) {
	baseURL := viper.GetString("base_url")
	if baseURL == "" {
		return nil, constants.ErrNoBaseURL
	}

	config := &strapi.Config{
		BaseURL:   strapiclient.NormalizeBaseURL(baseURL),
		Timeout:       viper.GetDuration("timeout"),
		UploadTimeout: viper.GetDuration("upload_timeout"),
		RetryMax:      viper.GetInt("retries"),
		Debug:         viper.GetBool("debug"),
		Logger:        strapi.NewZerologLogger(newLogger()),
		UserAgent:     "strapi-cli/" + cliVersion,
	}

	if token := viper.GetString("token"); token != "" {
		config.Auth = &strapi.AuthConfig{
			Strategy: strapi.AuthStrategyAPIToken,
			Options:  map[string]interface{}{"token": token},
		}
	}

	if natsURL := viper.GetString("cache_nats_url"); natsURL != "" {
		cache, err := strapi.NewCacheFromConfig(&strapi.CacheConfig{
			Type: strapi.CacheTypeNATS,
			NATS: &strapi.NATSKVConfig{
				URL:     natsURL,
				Bucket:  constants.DefaultCacheBucket,
				Timeout: config.Timeout,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("opening response cache: %w", err)
		}

		config.Cache = cache
		config.CacheTTL = viper.GetDuration("cache_ttl")
	}

	if viper.GetBool("stats") {
		attachStats(config)
	}

	return config, nil
}

// createClient builds a client from the current configuration.
func createClient() (*client.Client, error) {
	config, err := buildClientConfig()
	if err != nil {
		return nil, err
	}

	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return cli, nil
}

func truncate(value string, length int) string {
	runes := []rune(value)
	if len(runes) <= length {
		return value
	}

	return string(runes[:length-3]) + "..."
}
