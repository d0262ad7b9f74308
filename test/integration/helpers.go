//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/automation-client/internal/auth"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
	"github.com/fivetwenty-io/automation-client/pkg/automationclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	SubscriptionID string
	ResourceGroup  string
	Account        string
	TenantID       string
	ClientID       string
	ClientSecret   string
	AccessToken    string
	BinaryPath     string
	Verbose        bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		SubscriptionID: os.Getenv("AZAUTO_IT_SUBSCRIPTION_ID"),
		ResourceGroup:  os.Getenv("AZAUTO_IT_RESOURCE_GROUP"),
		Account:        os.Getenv("AZAUTO_IT_ACCOUNT"),
		TenantID:       os.Getenv("AZURE_TENANT_ID"),
		ClientID:       os.Getenv("AZURE_CLIENT_ID"),
		ClientSecret:   os.Getenv("AZURE_CLIENT_SECRET"),
		AccessToken:    os.Getenv("AZAUTO_IT_TOKEN"),
		BinaryPath:     getBinaryPath(),
		Verbose:        os.Getenv("AZAUTO_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the azauto binary
func getBinaryPath() string {
	if path := os.Getenv("AZAUTO_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../azauto", "./azauto", "../azauto"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "azauto" // Fallback to PATH
}

// SkipIfMissingConfig skips the test when no test account is configured
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.SubscriptionID == "" || config.ResourceGroup == "" || config.Account == "" {
		t.Skip("AZAUTO_IT_SUBSCRIPTION_ID, AZAUTO_IT_RESOURCE_GROUP and AZAUTO_IT_ACCOUNT must be set")
	}
}

// Scope returns the scope of the test account
func (config *TestConfig) Scope() automation.Scope {
	return automation.Scope{ResourceGroup: config.ResourceGroup, Account: config.Account}
}

// NewClient builds a library client from a static token or Azure credentials
func (config *TestConfig) NewClient(ctx context.Context) (automation.Client, error) {
	clientConfig := &automation.Config{
		SubscriptionID: config.SubscriptionID,
		RetryMax:       3,
		Debug:          config.Verbose,
	}

	if config.AccessToken != "" {
		clientConfig.AccessToken = config.AccessToken
	} else {
		credential, err := auth.NewCredential(auth.CredentialConfig{
			TenantID:     config.TenantID,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create credential: %w", err)
		}

		clientConfig.TokenSource = auth.NewCredentialTokenSource(ctx, credential, "")
	}

	return automationclient.New(ctx, clientConfig)
}

// CommandRunner runs the azauto binary against the test account
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a runner for the azauto binary
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("azauto binary not found at %s, skipping CLI tests", config.BinaryPath)
	}

	return &CommandRunner{config: config, t: t}
}

// Run executes an azauto command scoped to the test account
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes an azauto command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	global := []string{
		"--subscription", runner.config.SubscriptionID,
		"--resource-group", runner.config.ResourceGroup,
		"--account", runner.config.Account,
	}

	if runner.config.AccessToken != "" {
		global = append(global, "--token", runner.config.AccessToken)
	}

	// #nosec G204 -- test binary path comes from the test environment
	cmd := exec.Command(runner.config.BinaryPath, append(args, global...)...)

	var outBuf, errBuf bytes.Buffer

	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	cmd.Stdin = strings.NewReader(input)

	err = cmd.Run()

	if runner.config.Verbose {
		runner.t.Logf("azauto %s\nstdout: %s\nstderr: %s", strings.Join(args, " "), outBuf.String(), errBuf.String())
	}

	return outBuf.String(), errBuf.String(), err
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(resourceType, name string) {
	stdout, stderr, err := runner.Run(resourceType, "delete", name, "--force")
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, name, stdout, stderr)
	}
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		if condition() {
			return
		}

		select {
		case <-ticker.C:
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not JSON: %s", output)
	}
}
