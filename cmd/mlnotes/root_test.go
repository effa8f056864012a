package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A bad config path must surface as an error from Execute so main can
// report it before exiting.
func TestExecuteReturnsConfigError(t *testing.T) {
	rootCmd.SetArgs([]string{"regression", "--config", "/nonexistent/mlnotes.toml"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "/nonexistent/mlnotes.toml")
}
