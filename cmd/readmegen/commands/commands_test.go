package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/readmegen/internal/config"
	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

const sourceDoc = "# Title\n\nSQLite %%sqlite_version%%, see [](#open).\n\n## `Open(path string) *Database`\n"

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll("doc", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("doc", "README_src.md"), []byte(sourceDoc), 0o644))
	require.NoError(t, os.WriteFile("Makefile", []byte("SQLITE_URL = https://sqlite.org/2024/sqlite-amalgamation-31200.zip\n"), 0o644))
	return dir
}

func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Bind(&Global{}), kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx, cli
}

func TestParse_DefaultsToGenerate(t *testing.T) {
	ctx, _ := parse(t)
	assert.Equal(t, "generate", ctx.Command())
}

func TestParse_GlobalFlags(t *testing.T) {
	ctx, cli := parse(t, "-c", "custom.yaml", "-v", "check")
	assert.Equal(t, "check", ctx.Command())
	assert.Equal(t, "custom.yaml", cli.Config)
	assert.True(t, cli.Verbose)
}

func TestGenerate_WritesReadme(t *testing.T) {
	setupProject(t)

	cmd := &GenerateCmd{}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))

	out, err := os.ReadFile("README.md")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nSQLite 3.12.0, see [`Open()`](#openpath-string-*database).\n\n## `Open(path string) *Database`\n", string(out))
}

func TestGenerate_UnresolvedKeyIsReferenceError(t *testing.T) {
	setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join("doc", "README_src.md"), []byte("[](#missing)\n"), 0o644))

	err := (&GenerateCmd{}).Run(&Global{}, &CLI{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryReference))

	_, statErr := os.Stat("README.md")
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_ExplicitMissingConfigFails(t *testing.T) {
	setupProject(t)

	err := (&GenerateCmd{}).Run(&Global{}, &CLI{Config: "nope.yaml"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestGenerate_WritesMetricsFile(t *testing.T) {
	setupProject(t)
	require.NoError(t, os.WriteFile("readmegen.yaml", []byte("metrics_file: readmegen.prom\n"), 0o644))

	require.NoError(t, (&GenerateCmd{}).Run(&Global{}, &CLI{}))

	data, err := os.ReadFile("readmegen.prom")
	require.NoError(t, err)
	assert.Contains(t, string(data), "readmegen_runs_total")
}

func TestCheck_StaleThenUpToDate(t *testing.T) {
	setupProject(t)

	var out bytes.Buffer
	check := &CheckCmd{out: &out}
	err := check.Run(&Global{}, &CLI{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Contains(t, out.String(), "out of date")

	require.NoError(t, (&GenerateCmd{}).Run(&Global{}, &CLI{}))

	out.Reset()
	require.NoError(t, check.Run(&Global{}, &CLI{}))
	assert.Contains(t, out.String(), "README.md is up to date")
}

func TestInit_WritesDefaultConfig(t *testing.T) {
	setupProject(t)

	require.NoError(t, (&InitCmd{}).Run(&Global{}, &CLI{}))

	cfg, err := config.Load(config.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSource, cfg.Source)

	require.Error(t, (&InitCmd{}).Run(&Global{}, &CLI{}))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, &CLI{}))
}
