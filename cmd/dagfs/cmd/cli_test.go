package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestBuildLsCat(t *testing.T) {
	src := t.TempDir()
	store := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("world"), 0600))

	out := runCmd(t, "build", src, "--store", store, "--log-level", "none")
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	rootId := fields[0]

	lsOut := runCmd(t, "ls", rootId, "--store", store, "--log-level", "none")
	assert.Contains(t, lsOut, "a.txt")
	assert.Contains(t, lsOut, "sub")

	catOut := runCmd(t, "cat", rootId, "sub/b.txt", "--store", store, "--log-level", "none")
	assert.Equal(t, "world", catOut)
}

func TestBuildMissingPath(t *testing.T) {
	store := t.TempDir()
	rootCmd.SetArgs([]string{"build", filepath.Join(store, "nope"), "--store", store, "--log-level", "none"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	require.Error(t, rootCmd.Execute())
}
