package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOutput_CleanRunRenamesIntoPlace(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")

	w, finalize, err := openOutput(dest)
	require.NoError(t, err)
	_, err = io.WriteString(w, "DATE,AMT,Exchange Rate\n")
	require.NoError(t, err)

	require.NoError(t, finalize(nil))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "DATE,AMT,Exchange Rate\n", string(got))
	assertNoStagingLeftovers(t, dir)
}

func TestOpenOutput_FailedRunLeavesNoFileBehind(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")

	w, finalize, err := openOutput(dest)
	require.NoError(t, err)
	_, err = io.WriteString(w, "partial row that must not surface")
	require.NoError(t, err)

	require.NoError(t, finalize(errors.New("date column not found")))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	assertNoStagingLeftovers(t, dir)
}

func TestOpenOutput_EmptyPathWritesToStdout(t *testing.T) {
	w, finalize, err := openOutput("")

	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)
	assert.NoError(t, finalize(nil))
	assert.NoError(t, finalize(errors.New("any failure")))
}

// assertNoStagingLeftovers fails the test when the directory still holds any
// file besides the finalized destination.
func assertNoStagingLeftovers(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}
