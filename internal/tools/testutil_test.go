package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picobot/picobot/internal/workspace"
)

func newWorkspace(t *testing.T) *workspace.Resolver {
	t.Helper()
	ws, err := workspace.New(t.TempDir())
	require.NoError(t, err)
	return ws
}

func run(t *testing.T, tool Tool, params map[string]any) *Result {
	t.Helper()
	res := tool.Execute(context.Background(), params)
	require.NotNil(t, res)
	return res
}
