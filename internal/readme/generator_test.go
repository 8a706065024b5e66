package readme

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/config"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
	"git.home.luguber.info/inful/readmegen/internal/metrics"
)

const sourceDoc = "# node-sqlite3-wasm\n" +
	"\n" +
	"SQLite version: %%sqlite_version%%\n" +
	"\n" +
	"## API\n" +
	"\n" +
	"### `new Database(path[, options])`\n" +
	"\n" +
	"### `Database.run(sql[, values]) -> this`\n" +
	"\n" +
	"### `Database.isOpen`\n" +
	"\n" +
	"Use [](#new database) to open and [](#db.run) to execute. Check [open state](#db.isopen).\n"

const expectedDoc = "# node-sqlite3-wasm\n" +
	"\n" +
	"SQLite version: 3.45.1\n" +
	"\n" +
	"## API\n" +
	"\n" +
	"### `new Database(path[, options])`\n" +
	"\n" +
	"### `Database.run(sql[, values]) -> this`\n" +
	"\n" +
	"### `Database.isOpen`\n" +
	"\n" +
	"Use [`new Database()`](#new-databasepath-options) to open and " +
	"[`Database.run()`](#databaserunsql-values---this) to execute. " +
	"Check [`open state`](#databaseisopen).\n"

type fixture struct {
	cfg    *config.Config
	logs   *bytes.Buffer
	logger *slog.Logger
}

func newFixture(t *testing.T, source, makefile string) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Source = filepath.Join(dir, "README_src.md")
	cfg.Output = filepath.Join(dir, "README.md")
	cfg.Version.BuildFile = filepath.Join(dir, "Makefile")

	require.NoError(t, os.WriteFile(cfg.Source, []byte(source), 0o600))
	require.NoError(t, os.WriteFile(cfg.Version.BuildFile, []byte(makefile), 0o600))

	logs := &bytes.Buffer{}
	return &fixture{
		cfg:    cfg,
		logs:   logs,
		logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func (f *fixture) generator(opts ...Option) *Generator {
	return NewGenerator(f.cfg, append([]Option{WithLogger(f.logger)}, opts...)...)
}

const makefile = "SQLITE_ZIP = sqlite-amalgamation-34501.zip\n"

func TestGenerate(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)

	res, err := f.generator().Generate(context.Background())
	require.NoError(t, err)

	written, err := os.ReadFile(f.cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, expectedDoc, string(written))

	assert.Equal(t, "3.45.1", res.Version)
	assert.Equal(t, 1, res.Placeholders)
	assert.Equal(t, 3, res.Headings)
	assert.Len(t, res.References, 3)
	assert.Empty(t, res.Collisions)
	assert.Equal(t, Fingerprint(written), res.Fingerprint)
	assert.Contains(t, f.logs.String(), "README generated")
}

func TestGenerate_OverwritesExistingOutput(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)
	require.NoError(t, os.WriteFile(f.cfg.Output, []byte(strings.Repeat("stale\n", 1000)), 0o600))

	_, err := f.generator().Generate(context.Background())
	require.NoError(t, err)

	written, err := os.ReadFile(f.cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, expectedDoc, string(written))
}

func TestGenerate_UnresolvedKeyLeavesOutputUntouched(t *testing.T) {
	f := newFixture(t, sourceDoc+"\nSee [text](#nonexistent).\n", makefile)
	require.NoError(t, os.WriteFile(f.cfg.Output, []byte("previous"), 0o600))

	_, err := f.generator().Generate(context.Background())
	require.Error(t, err)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryReference, classified.Category())
	key, _ := classified.Context().GetString("key")
	assert.Equal(t, "nonexistent", key)
	line, _ := classified.Context().Get("line")
	assert.Equal(t, 15, line)

	written, err := os.ReadFile(f.cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(written))
}

func TestGenerate_MissingVersionPattern(t *testing.T) {
	f := newFixture(t, sourceDoc, "all:\n\tcc -o sqlite3 sqlite3.c\n")

	_, err := f.generator().Generate(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryVersion))

	_, statErr := os.Stat(f.cfg.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_MissingBuildFile(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)
	require.NoError(t, os.Remove(f.cfg.Version.BuildFile))

	_, err := f.generator().Generate(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate_MissingSource(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)
	require.NoError(t, os.Remove(f.cfg.Source))

	_, err := f.generator().Generate(context.Background())
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryNotFound, classified.Category())
	assert.ErrorIs(t, err, os.ErrNotExist)
	path, _ := classified.Context().GetString("path")
	assert.Equal(t, f.cfg.Source, path)
}

func TestGenerate_UnreadableSourceIsFilesystemError(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)
	require.NoError(t, os.Remove(f.cfg.Source))
	require.NoError(t, os.Mkdir(f.cfg.Source, 0o755))

	_, err := f.generator().Generate(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	msg := ferrors.NewCLIErrorAdapter(false, nil).FormatError(err)
	assert.Contains(t, msg, "failed to read source: ")
	assert.Contains(t, msg, "is a directory")
}

func TestRender_VersionDisabled(t *testing.T) {
	f := newFixture(t, sourceDoc, "")
	disabled := false
	f.cfg.Version.Enabled = &disabled

	res, err := f.generator().Render(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(res.Output), "SQLite version: %%sqlite_version%%")
	assert.Empty(t, res.Version)

	_, statErr := os.Stat(f.cfg.Output)
	assert.True(t, os.IsNotExist(statErr), "Render must not write the output")
}

func TestRender_NoBracketsCharset(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)
	f.cfg.Anchors.Charset = "no-brackets"

	res, err := f.generator().Render(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(res.Output), "[`new Database()`](#new-databasepath[-options])")
}

func TestRender_CollisionIsLogged(t *testing.T) {
	src := "### `Database.close()`\n\n### `Database.close(force)`\n\n[](#db.close)\n"
	f := newFixture(t, src, makefile)

	res, err := f.generator().Render(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Collisions, 1)
	assert.Contains(t, string(res.Output), "[`Database.close()`](#databasecloseforce)")
	assert.Contains(t, f.logs.String(), "Duplicate reference key")
	assert.Contains(t, f.logs.String(), "key=db.close")
}

func TestRender_VerifyAnchors(t *testing.T) {
	src := sourceDoc +
		"\nSee [the docs][site].\n" +
		"\n[site]: #nowhere\n" +
		"\n```md\n## `InFence`\n```\n"
	f := newFixture(t, src, makefile)
	f.cfg.VerifyAnchors = true

	res, err := f.generator().Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"nowhere"}, res.DanglingAnchors)
	assert.Equal(t, []string{"InFence"}, res.UnrenderedHeadings)
	assert.Contains(t, f.logs.String(), "Link target has no matching heading")
}

func TestRender_VerifyAnchorsAcceptsRenderedCodeHeadings(t *testing.T) {
	src := "## `a` and `b`\n" +
		"\n" +
		"## ` padded `\n" +
		"\n" +
		"## `plain`\n" +
		"\n" +
		"See [](#plain).\n"
	f := newFixture(t, src, makefile)
	f.cfg.VerifyAnchors = true

	res, err := f.generator().Render(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.UnrenderedHeadings)
	assert.Empty(t, res.DanglingAnchors)
	assert.NotContains(t, f.logs.String(), "not rendered as a heading")
}

func TestRender_CanceledContext(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.generator().Render(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type countingRecorder struct {
	metrics.NoopRecorder
	stages     map[string]metrics.ResultLabel
	outcomes   []metrics.RunOutcome
	headings   int
	references int
}

func (c *countingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	c.stages[stage] = result
}

func (c *countingRecorder) IncRunOutcome(o metrics.RunOutcome) {
	c.outcomes = append(c.outcomes, o)
}

func (c *countingRecorder) SetHeadings(n int) {
	c.headings = n
}

func (c *countingRecorder) AddReferences(n int) {
	c.references += n
}

func TestGenerate_RecordsMetrics(t *testing.T) {
	f := newFixture(t, sourceDoc, makefile)
	rec := &countingRecorder{stages: map[string]metrics.ResultLabel{}}

	_, err := f.generator(WithRecorder(rec)).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]metrics.ResultLabel{
		StageRead:    metrics.ResultSuccess,
		StageVersion: metrics.ResultSuccess,
		StageLinks:   metrics.ResultSuccess,
		StageResolve: metrics.ResultSuccess,
		StageWrite:   metrics.ResultSuccess,
	}, rec.stages)
	assert.Equal(t, []metrics.RunOutcome{metrics.OutcomeWritten}, rec.outcomes)
	assert.Equal(t, 3, rec.headings)
	assert.Equal(t, 3, rec.references)
}
