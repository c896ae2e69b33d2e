package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "website dev (commit: unknown, built: unknown)\n", out)
}

func TestPreviewCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "preview")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Horvat")
	assert.Contains(t, out, "500 branded notebooks")
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "deploy")
	assert.Error(t, err)
}
