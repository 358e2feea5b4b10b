package showroom_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/showroom"
	"github.com/agentstation/showroom/pkg/baseline"
	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/emitter"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/logging"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
}

func records(t *testing.T, entries map[string]string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range entries {
		fsys["recs/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func newPipeline(t *testing.T, fsys fstest.MapFS, opts ...showroom.Option) *showroom.Pipeline {
	t.Helper()
	tl := logging.NewTestLogger(t)
	base := []showroom.Option{
		showroom.WithFS(fsys),
		showroom.WithRecordDir("recs"),
		showroom.WithOutputPath(filepath.Join(t.TempDir(), "js", "data.js")),
		showroom.WithClock(fixedClock),
		showroom.WithLogger(tl.Logger),
	}
	p, err := showroom.New(append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func TestNewDefaults(t *testing.T) {
	p, err := showroom.New()
	require.NoError(t, err)

	assert.Equal(t, "_vehicules", p.RecordDir())
	assert.Equal(t, "js/data.js", p.OutputPath())
	assert.Equal(t, emitter.FormatJS, p.Format())
}

func TestNewFormatResolution(t *testing.T) {
	p, err := showroom.New(showroom.WithOutputPath("out/catalog.yaml"))
	require.NoError(t, err)
	assert.Equal(t, emitter.FormatYAML, p.Format())

	p, err = showroom.New(showroom.WithOutputPath("out/catalog.yaml"), showroom.WithFormat("toml"))
	require.NoError(t, err)
	assert.Equal(t, emitter.FormatTOML, p.Format())

	p, err = showroom.New(showroom.WithOutputPath("out/catalog"))
	require.NoError(t, err)
	assert.Equal(t, emitter.FormatJSON, p.Format())
}

func TestNewInvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   showroom.Option
		check func(error) bool
	}{
		{"unknown format", showroom.WithFormat("xml"), errors.IsUnsupportedFormat},
		{"unknown decoder", showroom.WithDecoder("ini"), errors.IsUnsupportedFormat},
		{"empty record dir", showroom.WithRecordDir(""), errors.IsValidationError},
		{"empty output", showroom.WithOutputPath(""), errors.IsValidationError},
		{"nil clock", showroom.WithClock(nil), errors.IsValidationError},
		{"negative concurrency", showroom.WithConcurrency(-1), errors.IsValidationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := showroom.New(tt.opt)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestLoadSortsAndSkips(t *testing.T) {
	fsys := records(t, map[string]string{
		"c.md":      catalogs.TestRecord(t, 30, "bmw"),
		"a.md":      catalogs.TestRecord(t, 10, "audi"),
		"b.md":      catalogs.TestRecord(t, 20, "citroen"),
		"broken.md": "no metadata here\n",
		"notes.txt": "ignored",
	})
	p := newPipeline(t, fsys)

	vehicles, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30}, catalogs.IDs(vehicles))
	assert.Equal(t, "AUDI", vehicles[0].Brand)

	scan, err := p.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, scan.Files)
	require.Len(t, scan.Skipped, 1)
	assert.Equal(t, "recs/broken.md", scan.Skipped[0].File)
	assert.True(t, errors.IsMalformedRecord(scan.Skipped[0].Err))
}

func TestLoadDefaultsYearFromClock(t *testing.T) {
	p := newPipeline(t, records(t, map[string]string{
		"x.md": "---\nid: 1\nbrand: dacia\n---\n",
	}))

	vehicles, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, 2026, vehicles[0].Year)
}

func TestLoadMissingDirectory(t *testing.T) {
	p := newPipeline(t, fstest.MapFS{}, showroom.WithRecordDir("absent"))

	_, err := p.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadCanceled(t *testing.T) {
	p := newPipeline(t, records(t, map[string]string{"a.md": catalogs.TestRecord(t, 1, "x")}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
}

func TestBuildMergesOverBaseline(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "data.js")
	require.NoError(t, emitter.WriteFile(basePath, catalogs.TestVehicles(t, 1, 2), emitter.WithFormat(emitter.FormatJS)))

	fsys := records(t, map[string]string{
		"one.md":  catalogs.TestRecord(t, 1, "peugeot"),
		"five.md": catalogs.TestRecord(t, 5, "skoda"),
	})
	p := newPipeline(t, fsys,
		showroom.WithBaselinePath(basePath),
		showroom.WithOutputPath(basePath),
	)

	var added []int
	var replaced [][2]string
	p.OnVehicleAdded(func(v catalogs.Vehicle) { added = append(added, v.ID) })
	p.OnVehicleReplaced(func(old, new catalogs.Vehicle) {
		replaced = append(replaced, [2]string{old.Brand, new.Brand})
	})

	result, err := p.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 5}, catalogs.IDs(result.Vehicles))
	assert.Equal(t, []int{5}, result.Changes.Added)
	assert.Equal(t, []int{1}, result.Changes.Updated)
	assert.Equal(t, []int{2}, result.Changes.Kept)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, emitter.FormatJS, result.Format)
	assert.Positive(t, result.Bytes)

	assert.Equal(t, []int{5}, added)
	assert.Equal(t, [][2]string{{"RENAULT", "PEUGEOT"}}, replaced)

	written, err := baseline.Load(basePath)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, catalogs.IDs(written))
	assert.Equal(t, "PEUGEOT", written[0].Brand)
	assert.Equal(t, "RENAULT", written[1].Brand)
}

func TestBuildIdempotent(t *testing.T) {
	fsys := records(t, map[string]string{
		"a.md": catalogs.TestRecord(t, 2, "kia"),
		"b.md": catalogs.TestRecord(t, 1, "fiat"),
	})
	p := newPipeline(t, fsys, showroom.WithFormat("json"))

	_, err := p.Build(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(p.OutputPath())
	require.NoError(t, err)

	_, err = p.Build(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(p.OutputPath())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildBanner(t *testing.T) {
	p := newPipeline(t, records(t, map[string]string{"a.md": catalogs.TestRecord(t, 1, "opel")}),
		showroom.WithBanner(true))

	_, err := p.Build(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(p.OutputPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Generated at: 14/03/2026 09:00:00")
}

func TestBuildDryRun(t *testing.T) {
	p := newPipeline(t, records(t, map[string]string{"a.md": catalogs.TestRecord(t, 1, "opel")}),
		showroom.WithDryRun(true))

	result, err := p.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Positive(t, result.Bytes)

	_, err = os.Stat(p.OutputPath())
	assert.True(t, os.IsNotExist(err))
}

func TestBuildDuplicates(t *testing.T) {
	fsys := records(t, map[string]string{
		"a.md": catalogs.TestRecord(t, 4, "first"),
		"b.md": catalogs.TestRecord(t, 4, "second"),
	})

	t.Run("last wins", func(t *testing.T) {
		p := newPipeline(t, fsys)
		result, err := p.Build(context.Background())
		require.NoError(t, err)
		require.Len(t, result.Vehicles, 1)
		assert.Equal(t, []int{4}, result.Changes.Duplicates)
	})

	t.Run("strict", func(t *testing.T) {
		p := newPipeline(t, fsys, showroom.WithStrictDuplicates(true))
		_, err := p.Build(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateID(err))

		_, statErr := os.Stat(p.OutputPath())
		assert.True(t, os.IsNotExist(statErr), "artifact must not be written")
	})
}

func TestBuildMissingBaselineStartsEmpty(t *testing.T) {
	p := newPipeline(t, records(t, map[string]string{"a.md": catalogs.TestRecord(t, 3, "seat")}),
		showroom.WithBaselinePath(filepath.Join(t.TempDir(), "none.js")))

	result, err := p.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3}, result.Changes.Added)
}

func TestAutoBuild(t *testing.T) {
	p := newPipeline(t, records(t, map[string]string{"a.md": catalogs.TestRecord(t, 1, "mini")}),
		showroom.WithAutoBuildInterval(10*time.Millisecond))

	require.NoError(t, p.AutoBuildOn())
	t.Cleanup(func() { _ = p.AutoBuildOff() })

	require.Eventually(t, func() bool {
		_, err := os.Stat(p.OutputPath())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, p.AutoBuildOff())
	require.NoError(t, p.AutoBuildOff())
}

func TestAutoBuildInvalidInterval(t *testing.T) {
	p := newPipeline(t, fstest.MapFS{}, showroom.WithAutoBuildInterval(0))
	err := p.AutoBuildOn()
	assert.True(t, errors.IsValidationError(err))
}
