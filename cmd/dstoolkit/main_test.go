package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/logging"
)

type result struct {
	code   int
	stdout string
	logs   string
}

// execute runs a command line with output captured and a test logger.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut, logs bytes.Buffer
	a := newApp(&out, &errOut)
	a.newLogger = func(cfg *config.Config) (*logging.Logger, error) {
		return logging.NewWriters(&logs, &logs, cfg.Verbose), nil
	}
	code := run(a, args)
	return result{code: code, stdout: out.String(), logs: logs.String() + errOut.String()}
}

func writeAt(t *testing.T, path, body string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeAt(t, filepath.Join(dir, "01.csv"), "a\n", now.Add(-time.Hour))
	writeAt(t, filepath.Join(dir, "02.csv"), "a\n", now)

	r := execute(t, "latest", dir, "0", "csv")
	require.Equal(t, 0, r.code, r.logs)
	assert.Equal(t, "02.csv\n", r.stdout)

	r = execute(t, "latest", "--path", dir, "0", ".csv")
	require.Equal(t, 0, r.code, r.logs)
	assert.Equal(t, filepath.Join(dir, "02.csv")+"\n", r.stdout)
}

func TestLatest_NoMatch(t *testing.T) {
	r := execute(t, "latest", t.TempDir(), "sales")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.logs, "no files matched")
	assert.Empty(t, r.stdout)
}

func TestLatest_WrongArgs(t *testing.T) {
	r := execute(t, "latest", "only-one")
	assert.Equal(t, 1, r.code)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeAt(t, filepath.Join(dir, "sales_0101_000000.csv"), "a\n", now.Add(-time.Hour))
	writeAt(t, filepath.Join(dir, "sales_latest.csv"), "a\n", now)

	r := execute(t, "ls", dir, "sales", "csv")
	require.Equal(t, 0, r.code, r.logs)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "*"))
	assert.True(t, strings.HasSuffix(lines[0], "sales_latest.csv"))
	assert.True(t, strings.HasSuffix(lines[1], "sales_0101_000000.csv"))
}

func TestName(t *testing.T) {
	r := execute(t, "name", "out", "report", "csv")
	require.Equal(t, 0, r.code, r.logs)
	assert.Regexp(t, regexp.MustCompile(`^out/report_\d{4}_\d{6}\.csv\n$`), r.stdout)

	r = execute(t, "name", "out", "report", ".csv", "--latest")
	require.Equal(t, 0, r.code, r.logs)
	assert.Equal(t, filepath.Join("out", "report_latest.csv")+"\n", r.stdout)
}

func TestLayout(t *testing.T) {
	root := t.TempDir()
	r := execute(t, "layout", "--root", root)
	require.Equal(t, 0, r.code, r.logs)
	assert.Contains(t, r.stdout, filepath.Join(root, "processed"))
	_, err := os.Stat(filepath.Join(root, "raw"))
	assert.True(t, os.IsNotExist(err), "layout without --create must not create areas")

	r = execute(t, "layout", "-r", root, "--create")
	require.Equal(t, 0, r.code, r.logs)
	for _, area := range []string{"raw", "processed", "interim", "external"} {
		fi, err := os.Stat(filepath.Join(root, area))
		require.NoError(t, err)
		assert.True(t, fi.IsDir())
	}
}

func TestInvalidLogFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(newApp(&out, &errOut), []string{"layout", "--log-format", "xml"})
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "dstoolkit:")
}

const recipe = `
input:
  pattern: sales
output:
  stem: sales_clean
  timestamped: false
steps:
  - op: replace_in_column_names
    replace: "_"
  - op: convert_to_bool
    columns: flag
`

func TestRun_Recipe(t *testing.T) {
	root := t.TempDir()
	writeAt(t, filepath.Join(root, "raw", "sales_latest.csv"), ",A Banana,flag\n0,1.5,1\n1,2,0\n", time.Now())
	cfgPath := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(recipe), 0o644))

	r := execute(t, "run", "--config", cfgPath, "--root", root)
	require.Equal(t, 0, r.code, r.logs)

	got, err := os.ReadFile(filepath.Join(root, "processed", "sales_clean_latest.csv"))
	require.NoError(t, err)
	assert.Equal(t, ",A_Banana,flag\n0,1.500,True\n1,2.000,False\n", string(got))
	assert.Contains(t, r.logs, "[SUCCESS]")
}

func TestRun_RequiresConfig(t *testing.T) {
	r := execute(t, "run", "--root", t.TempDir())
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.logs, "--config")
}

func TestRun_MissingInput(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(recipe), 0o644))

	r := execute(t, "run", "-c", cfgPath, "-r", root)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.logs, "no matching files")
}

func TestCheck(t *testing.T) {
	root := t.TempDir()
	r := execute(t, "check", "--root", root)
	assert.Equal(t, 0, r.code, r.logs)

	r = execute(t, "check", "--root", filepath.Join(root, "absent"))
	assert.Equal(t, 1, r.code)
}
