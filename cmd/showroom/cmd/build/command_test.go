package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/showroom/internal/appcontext"
	"github.com/agentstation/showroom/pkg/baseline"
	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/emitter"
)

func writeRecords(t *testing.T, records map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "_vehicules")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range records {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func runBuild(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand(&appcontext.Mock{})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestBuild_WritesArtifact(t *testing.T) {
	dir := writeRecords(t, map[string]string{
		"clio.md":   catalogs.TestRecord(t, 3, "renault"),
		"208.md":    catalogs.TestRecord(t, 1, "peugeot"),
		"broken.md": "no metadata here",
	})
	output := filepath.Join(t.TempDir(), "vehicles.json")

	out, errOut, err := runBuild(t, "--records", dir, "--output", output)
	require.NoError(t, err)

	assert.Contains(t, out, "+ 1 PEUGEOT Test")
	assert.Contains(t, out, "+ 3 RENAULT Test")
	assert.Contains(t, out, "Wrote "+output+" (json,")
	assert.Contains(t, errOut, "skipped")
	assert.Contains(t, errOut, "broken.md")

	vehicles, err := baseline.Load(output)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, catalogs.IDs(vehicles))
}

func TestBuild_MergesBaseline(t *testing.T) {
	dir := writeRecords(t, map[string]string{
		"clio.md": catalogs.TestRecord(t, 2, "renault"),
	})
	base := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, emitter.WriteFile(base, catalogs.TestVehicles(t, 1, 2), emitter.WithFormat(emitter.FormatJSON)))

	out, _, err := runBuild(t, "--records", dir, "--baseline", base, "--output", base)
	require.NoError(t, err)
	assert.Contains(t, out, "~ 2 RENAULT Test")
	assert.Contains(t, out, "2 vehicles: 0 added, 1 replaced (1 changed), 1 kept")

	vehicles, err := baseline.Load(base)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, catalogs.IDs(vehicles))
	assert.Equal(t, "Test", vehicles[1].Model)
	assert.Equal(t, "Clio 1", vehicles[0].Model)
}

func TestBuild_DryRun(t *testing.T) {
	dir := writeRecords(t, map[string]string{"a.md": catalogs.TestRecord(t, 1, "dacia")})
	output := filepath.Join(t.TempDir(), "data.js")

	out, _, err := runBuild(t, "--records", dir, "--output", output, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would write")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(dir string) []string
	}{
		{"missing record dir", func(dir string) []string {
			return []string{"--records", filepath.Join(dir, "missing"), "--output", filepath.Join(dir, "out.json")}
		}},
		{"unknown format", func(dir string) []string {
			return []string{"--records", dir, "--format", "xml"}
		}},
		{"unknown decoder", func(dir string) []string {
			return []string{"--records", dir, "--decoder", "xml"}
		}},
		{"unexpected argument", func(dir string) []string {
			return []string{"extra"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeRecords(t, map[string]string{"a.md": catalogs.TestRecord(t, 1, "dacia")})
			_, _, err := runBuild(t, tt.args(dir)...)
			assert.Error(t, err)
		})
	}
}

func TestBuild_StrictDuplicates(t *testing.T) {
	dir := writeRecords(t, map[string]string{
		"a.md": catalogs.TestRecord(t, 1, "dacia"),
		"b.md": catalogs.TestRecord(t, 1, "skoda"),
	})
	output := filepath.Join(t.TempDir(), "out.json")

	_, _, err := runBuild(t, "--records", dir, "--output", output, "--strict-duplicates")
	require.Error(t, err)

	_, _, err = runBuild(t, "--records", dir, "--output", output)
	assert.NoError(t, err)
}
