package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (*Common, string, bool, error) {
	t.Helper()
	var (
		common Common
		done   bool
		out    bytes.Buffer
	)
	cmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			_, done, err = common.Load(cmd)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	common.Bind(cmd)
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return &common, out.String(), done, err
}

func TestLoad_Defaults(t *testing.T) {
	c, out, done, err := run(t, "-v")
	require.NoError(t, err)
	assert.True(t, c.Verbose)
	assert.False(t, done)
	assert.Empty(t, out)
}

func TestLoad_PrintConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  carrots: 4\n"), 0o600))

	_, out, done, err := run(t, "--config", path, "--print-config")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, out, "carrots: 4")
	assert.Contains(t, out, "duration_seconds: 10")
}

func TestLoad_BadFile(t *testing.T) {
	_, _, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
