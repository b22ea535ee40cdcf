package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Structure(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()
	assert.Equal(t, "nebulactl", root.Use)

	names := map[string]bool{}
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"teams", "map", "schedule", "feed"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	for _, flag := range []string{"config", "log-level", "output", "timeout", "server", "as-user", "roles"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing flag %q", flag)
	}
}

func TestCLIContext_Missing(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := cliContext(cmd)
	assert.Error(t, err)
}

func TestPrintResult_JSON(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &CLIContext{
		OutputFormat: "json",
	}))

	require.NoError(t, printResult(cmd, map[string]int{"points": 40}))
	assert.JSONEq(t, `{"points": 40}`, out.String())
}

func TestPrintResult_Text(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &CLIContext{
		OutputFormat: "text",
	}))

	require.NoError(t, printResult(cmd, "ready"))
	assert.Equal(t, "ready\n", out.String())
}
