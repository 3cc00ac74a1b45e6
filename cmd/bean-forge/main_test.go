package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	old := stdout
	stdout = &buf

	t.Cleanup(func() { stdout = old })

	return &buf
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRun_Help(t *testing.T) {
	out := capture(t)

	assert.Equal(t, 0, run([]string{"--help"}))
	assert.Contains(t, out.String(), "scan")
	assert.Contains(t, out.String(), "migrate")

	assert.Equal(t, 2, run([]string{"frobnicate"}))
	assert.Equal(t, 2, run([]string{"scan"}), "a pattern is required")
}

func TestRun_Scan(t *testing.T) {
	out := capture(t)

	require.Equal(t, 0, run([]string{"scan", "bean-forge/store"}))

	assert.Contains(t, out.String(), "bean-forge/store.Customer\n")
	assert.Regexp(t, `NewCustomer\(string\)\s+constructor`, out.String())
	assert.Regexp(t, `email\s+string\s+accessor rw`, out.String())
	assert.Regexp(t, `customer\s+\*Customer\s+accessor rw`, out.String())
	assert.Regexp(t, `status\s+OrderStatus\s+field rw`, out.String())
}

func TestRun_Gen(t *testing.T) {
	dir := t.TempDir()

	require.Equal(t, 0, run([]string{"gen", "-t", "store.Order", "-t", "warehouse.Order", "-o", dir,
		"bean-forge/store", "bean-forge/warehouse"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.ElementsMatch(t, []string{"store_order_command.go", "warehouse_order_command.go"}, names)

	assert.Equal(t, 1, run([]string{"gen", "-t", "store.Ordr", "-o", dir, "bean-forge/store"}))
}

func TestSelectBeans_Suggestions(t *testing.T) {
	graph, err := load(&Options{}, log.Default(), []string{"bean-forge/store"})
	require.NoError(t, err)

	all, err := selectBeans(graph, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(graph.Beans))

	_, err = selectBeans(graph, []string{"store.Custmer", "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown bean "store.Custmer" (did you mean store.Customer?)`)
	assert.Contains(t, err.Error(), `unknown bean "Nope"`)
}

func TestRun_Check(t *testing.T) {
	out := capture(t)

	valid := writeConfig(t, "properties:\n  - type: store.Customer\n    property: email\n    value: a@b.c\n")
	assert.Equal(t, 0, run([]string{"check", valid, "bean-forge/store"}))
	assert.Empty(t, out.String())

	invalid := writeConfig(t, "seed: 3\nproperties:\n  - type: store.Customer\n    property: emial\n    value: a@b.c\n")
	assert.Equal(t, 1, run([]string{"check", invalid, "bean-forge/store"}))
	assert.Contains(t, out.String(), "[store.Customer] emial: [unknown_property]")
	assert.Contains(t, out.String(), "[unused_seed]")
}

func TestRun_Migrate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BEANFORGE_CONFIG", "")
	t.Setenv("BEANFORGE_DSN", "")

	assert.Equal(t, 1, run([]string{"migrate", writeConfig(t, "log_level: error\n")}), "no dsn")

	db := filepath.Join(t.TempDir(), "beans.db")
	cfg := writeConfig(t, "log_level: error\nsaver:\n  dsn: "+db+"\n")

	require.Equal(t, 0, run([]string{"-v", "migrate", cfg}))
	assert.FileExists(t, db)
}
