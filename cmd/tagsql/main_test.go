package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countOrders = `<query>
  <select>
    <column>
      <alias>
        <lhs><count_func>"id"</count_func></lhs>
        <rhs>"cnt"</rhs>
      </alias>
    </column>
  </select>
  <from><table>"orders"</table></from>
</query>`

const twoTables = `<query>
  <select><column>"id"</column></select>
  <from><table>"a"</table><table>"b"</table></from>
</query>`

const missingFrom = `<query><select><column>"id"</column></select></query>`

func writeQueries(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	return dir
}

func TestParseArguments(t *testing.T) {
	config, err := parseArguments(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "./queries", config.InputDir)
	assert.Equal(t, "./tagsql_output", config.OutputDir)
	assert.Equal(t, "tree,sql", config.Emit)
	assert.Equal(t, runtime.GOMAXPROCS(0), config.Workers)
	assert.Empty(t, config.Files)

	config, err = parseArguments([]string{"-trace", "-workers", "3", "a.xml", "b.xml"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, config.Trace)
	assert.Equal(t, 3, config.Workers)
	assert.Equal(t, []string{"a.xml", "b.xml"}, config.Files)

	_, err = parseArguments([]string{"-nope"}, io.Discard)
	assert.Error(t, err)
}

func TestRunDirectoryMode(t *testing.T) {
	in := writeQueries(t, map[string]string{"count.xml": countOrders, "bad.xml": missingFrom})
	out := filepath.Join(t.TempDir(), "out")
	config, err := parseArguments([]string{"-input", in, "-output", out, "-emit", "sql,tree"}, io.Discard)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), config, &stdout, &stderr, false)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "tagsql 2 document(s): 1 compiled, 1 failed")
	assert.Contains(t, stdout.String(), "  syntax: 1")
	assert.Contains(t, stdout.String(), "bad.xml")
	assert.Contains(t, stderr.String(), "documents failed")

	data, err := os.ReadFile(filepath.Join(out, "count.xml.sql"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(id) AS cnt FROM orders\n", string(data))
	assert.FileExists(t, filepath.Join(out, "parsed_bad.xml.txt"))
}

func TestRunSingleFileMode(t *testing.T) {
	in := writeQueries(t, map[string]string{"count.xml": countOrders, "bad.xml": missingFrom})
	config := Configuration{
		Files:     []string{filepath.Join(in, "count.xml"), filepath.Join(in, "bad.xml")},
		Workers:   1,
		LogLevel:  "ERROR",
		LogFormat: "text",
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), config, &stdout, &stderr, false)
	assert.Equal(t, 1, code)
	assert.Equal(t, "SELECT COUNT(id) AS cnt FROM orders\n", stdout.String())
	assert.Contains(t, stderr.String(), "bad.xml: syntax error")
}

func TestRunAnalyze(t *testing.T) {
	in := writeQueries(t, map[string]string{"two.xml": twoTables})
	config := Configuration{
		Files:     []string{filepath.Join(in, "two.xml")},
		Analyze:   true,
		LogLevel:  "ERROR",
		LogFormat: "text",
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), config, &stdout, &stderr, false)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "SELECT id FROM a, b\n")
	assert.Contains(t, stdout.String(), "two.xml: valid query, 1 finding(s)")
	assert.Contains(t, stdout.String(), "[warning] CROSS_PRODUCT")
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), Configuration{LogLevel: "loud"}, &stdout, &stderr, false)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "unknown log level")

	stderr.Reset()
	code = run(context.Background(), Configuration{LogLevel: "INFO", Emit: "ast", InputDir: t.TempDir()}, &stdout, &stderr, false)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "unknown artifact")
}

func TestSummaryStyled(t *testing.T) {
	in := writeQueries(t, map[string]string{"count.xml": countOrders})
	out := filepath.Join(t.TempDir(), "out")
	config, err := parseArguments([]string{"-input", in, "-output", out, "-log-level", "error"}, io.Discard)
	require.NoError(t, err)

	var stdout bytes.Buffer
	code := run(context.Background(), config, &stdout, io.Discard, true)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "1 compiled")
	assert.Contains(t, stdout.String(), "╭")
}

func TestRunLogsThroughGlobalLogger(t *testing.T) {
	in := writeQueries(t, map[string]string{"count.xml": countOrders})
	out := filepath.Join(t.TempDir(), "out")
	config, err := parseArguments([]string{"-input", in, "-output", out, "-log-level", "info", "-log-format", "json"}, io.Discard)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), config, &stdout, &stderr, false)
	assert.Equal(t, 0, code)
	logs := stderr.String()
	assert.Contains(t, logs, `"msg":"artifacts written"`)
	assert.Contains(t, logs, `"component":"batch"`)
	assert.Contains(t, logs, `"msg":"run finished"`)
	assert.NotContains(t, logs, `"msg":"configuration"`)
}
