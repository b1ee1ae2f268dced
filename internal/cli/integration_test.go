package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the CLI with the given stdin, extra environment and arguments
func runCLI(t *testing.T, stdin string, env []string, args ...string) (map[string]interface{}, string) {
	t.Helper()

	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), "output is not JSON: %s", stdout.String())
	return result, stderr.String()
}

// TestCLI_FileInput tests the CLI with a file on disk
func TestCLI_FileInput(t *testing.T) {
	tempDir := t.TempDir()

	yamlContent := "service:\n  name: api\n  replicas: 3\n  tags:\n    - web\n    - internal\n"
	yamlFile := filepath.Join(tempDir, "service.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(yamlContent), 0644))

	result, _ := runCLI(t, "", nil, "-i", yamlFile)

	assert.Equal(t, "yaml", result["Format"])
	assert.Equal(t, yamlContent, result["Original"])
	assert.Equal(t, `{"service":{"name":"api","replicas":3,"tags":["web","internal"]}}`, result["normal"])
	assert.Contains(t, result["toml"], "[service]")
	// a single object is not tabular
	assert.Nil(t, result["csv"])
	assert.Nil(t, result["markdown_table"])
}

// TestCLI_StdinStdout tests the CLI with stdin input and stdout output
func TestCLI_StdinStdout(t *testing.T) {
	result, _ := runCLI(t, `[{"id": 1, "name": "Item 1"}, {"id": 2, "name": "Item 2"}]`, nil)

	assert.Equal(t, "json", result["Format"])
	assert.Equal(t, "id,name\n1,Item 1\n2,Item 2\n", result["csv"])
	assert.Len(t, result, 9)
}

// TestCLI_ConfigFile tests that a config file sets the default targets
func TestCLI_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".datasniff.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("targets:\n  - csv\n"), 0644))

	result, _ := runCLI(t, `[{"a": 1}]`, nil, "-c", configFile)

	assert.Len(t, result, 5)
	assert.Equal(t, "a\n1\n", result["csv"])

	// flags win over the config file
	result, _ = runCLI(t, `[{"a": 1}]`, nil, "-c", configFile, "-t", "json")
	assert.Len(t, result, 5)
	assert.Contains(t, result, "json")
	assert.NotContains(t, result, "csv")
}

// TestCLI_Environment tests the DATASNIFF_* variables
func TestCLI_Environment(t *testing.T) {
	result, _ := runCLI(t, "a: 1\n", []string{"DATASNIFF_TARGETS=yaml,json"})
	assert.Len(t, result, 6)
	assert.Equal(t, "yaml", result["Format"])

	result, _ = runCLI(t, "a: 1\n", []string{"DATASNIFF_DISABLE=yaml", "DATASNIFF_TARGETS=yaml"})
	assert.Equal(t, "unknown", result["Format"])
	assert.Equal(t, "a: 1\n", result["Original"])
	assert.Nil(t, result["yaml"])
}

// TestCLI_Debug tests that debug logging goes to stderr only
func TestCLI_Debug(t *testing.T) {
	result, stderr := runCLI(t, `{"a": 1}`, nil, "--debug")
	assert.Equal(t, "json", result["Format"])
	assert.Contains(t, stderr, "detection stage matched")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	result, _ := runCLI(t, "", nil)

	assert.Len(t, result, 4)
	assert.Equal(t, "unknown", result["Format"])
	assert.Equal(t, "", result["Original"])
	assert.Equal(t, "", result["Beautified"])
	assert.Equal(t, "", result["normal"])
}

// TestCLI_InvalidEnvironment tests that a bad environment value is reported
func TestCLI_InvalidEnvironment(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"a": 1}`)
	cmd.Env = append(os.Environ(), "DATASNIFF_MAX_BYTES=lots")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with an invalid environment value")
	assert.Contains(t, stderr.String(), "Configuration error")
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-v")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "datasniff version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "--file")
	assert.Contains(t, helpOutput, "--targets")
	assert.Contains(t, helpOutput, "--format")
	assert.Contains(t, helpOutput, "--permissive")
	assert.Contains(t, helpOutput, "--max-bytes")
}
