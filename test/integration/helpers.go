//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL    string
	Token      string
	Collection string
	Single     string
	StrapiPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	collection := os.Getenv("STRAPI_TEST_COLLECTION")
	if collection == "" {
		collection = "articles"
	}

	return &TestConfig{
		BaseURL:    os.Getenv("STRAPI_URL"),
		Token:      os.Getenv("STRAPI_TOKEN"),
		Collection: collection,
		Single:     os.Getenv("STRAPI_TEST_SINGLE"),
		StrapiPath: getStrapiPath(),
		Verbose:    os.Getenv("STRAPI_VERBOSE") == "true",
	}
}

// getStrapiPath determines the path to the strapi binary
func getStrapiPath() string {
	if path := os.Getenv("STRAPI_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../strapi",
		"./strapi",
		"../strapi",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "strapi" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.BaseURL == "" || config.Token == "" {
		t.Skip("STRAPI_URL or STRAPI_TOKEN not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.StrapiPath); err != nil {
		t.Skipf("strapi binary not found at %s, skipping integration test", config.StrapiPath)
	}
}

// CommandRunner runs the strapi binary against the configured server
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a strapi command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a strapi command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.StrapiPath, args...)
	cmd.Env = append(os.Environ(),
		"STRAPI_BASE_URL="+runner.config.BaseURL,
		"STRAPI_TOKEN="+runner.config.Token,
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.StrapiPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CleanupDocument attempts to delete a test document
func (runner *CommandRunner) CleanupDocument(collection, documentID string) {
	stdout, stderr, err := runner.Run("collection", "delete", collection, documentID, "--force")
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", collection, documentID, stdout, stderr)
	}
}

// ParseJSONOutput decodes command output printed with --output json
func ParseJSONOutput(t *testing.T, output string) map[string]interface{} {
	t.Helper()

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded), "output is not a JSON object: %s", output)

	return decoded
}
