package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose, asJSON, configPath, at = false, false, "", ""
	t.Cleanup(func() {
		verbose, asJSON, configPath, at = false, false, "", ""
	})

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCompare(t *testing.T) {
	out, err := execute(t, "compare", "1.10", "1.9")
	require.NoError(t, err)
	assert.Equal(t, "1.10 > 1.9\n1001000000000 > 1000900000000\n", out)

	_, err = execute(t, "compare", "1.x", "1")
	assert.Error(t, err)

	out, err = execute(t, "--verbose", "compare", "2", "2.0")
	require.NoError(t, err)
	assert.Equal(t, "2 = 2.0\n2000000000000 = 2000000000000\n", out)
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "old.json", `[{"id":"_meta","name":"TB"},{"id":"imp"},{"id":"baron"}]`)
	updated := writeFile(t, dir, "new.json", `[{"id":"_meta","name":"TB 2"},{"id":"imp"},{"id":"spy"}]`)

	out, err := execute(t, "diff", old, updated)
	require.NoError(t, err)
	assert.Equal(t, "  + spy\n  - baron\n", out)

	out, err = execute(t, "diff", old, old)
	require.NoError(t, err)
	assert.Equal(t, "  no character changes\n", out)

	broken := writeFile(t, dir, "broken.json", `{"id":"imp"}`)
	_, err = execute(t, "diff", old, broken)
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.0.json", `[{"id":"_meta","name":"Sects"},{"id":"imp"}]`)
	writeFile(t, dir, "1.1.json", `[{"id":"_meta","name":"Sects"},{"id":"imp"},{"id":"spy"}]`)
	writeFile(t, dir, "1.2.json", `[{"id":"_meta","name":"Sects"},{"id":"spy"}]`)
	writeFile(t, dir, "notes.json", `[]`)

	t.Run("text output", func(t *testing.T) {
		out, err := execute(t, "history", dir)
		require.NoError(t, err)
		assert.Equal(t, "1.2 Sects\n\n1.2 (from 1.1)\n  - imp\n\n1.1 (from 1.0)\n  + spy\n", out)
	})

	t.Run("viewpoint", func(t *testing.T) {
		out, err := execute(t, "history", "--at", "1.1", dir)
		require.NoError(t, err)
		assert.Equal(t, "1.1 Sects\n\n1.1 (from 1.0)\n  + spy\n", out)
	})

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "--json", "history", dir)
		require.NoError(t, err)

		var changes []struct {
			Version         string                   `json:"version"`
			PreviousVersion string                   `json:"previous_version"`
			Additions       []map[string]interface{} `json:"additions"`
			Deletions       []map[string]interface{} `json:"deletions"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &changes))
		require.Len(t, changes, 2)
		assert.Equal(t, "1.2", changes[0].Version)
		assert.Equal(t, "1.1", changes[0].PreviousVersion)
		assert.Empty(t, changes[0].Additions)
		require.Len(t, changes[0].Deletions, 1)
		assert.Equal(t, "imp", changes[0].Deletions[0]["id"])
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := execute(t, "history", t.TempDir())
		assert.Error(t, err)
	})
}
