package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_Stdin(t *testing.T) {
	var useCases = []struct {
		description string
		stdin       string
		args        []string
		expect      string
	}{
		{description: "one worker", stdin: "1 2 3 4 5 6 7 8 9 10", args: []string{"-w", "1"}, expect: "4 total primes.\n"},
		{description: "four workers", stdin: "1 2 3 4 5 6 7 8 9 10", args: []string{"--workers", "4"}, expect: "4 total primes.\n"},
		{description: "empty input", stdin: "", args: nil, expect: "0 total primes.\n"},
		{description: "channel queue", stdin: "2\n3\n4\n", args: []string{"--queue", "channel"}, expect: "2 total primes.\n"},
	}
	for _, useCase := range useCases {
		actual, err := execute(t, useCase.stdin, useCase.args...)
		require.NoError(t, err, useCase.description)
		assert.Equal(t, useCase.expect, actual, useCase.description)
	}
}

func TestRoot_Errors(t *testing.T) {
	_, err := execute(t, "1 2 3", "--arena-capacity", "2")
	assert.ErrorContains(t, err, "arena exhausted")

	_, err = execute(t, "1 x", "-w", "1")
	assert.ErrorContains(t, err, "invalid integer")

	_, err = execute(t, "1", "--queue", "ring")
	assert.ErrorContains(t, err, "unsupported queue")

	_, err = execute(t, "1", "--log-level", "loud")
	assert.Error(t, err)
}

func TestRoot_EnvAndConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	configURL := "mem://localhost/primecount/cmd/config.yaml"
	require.NoError(t, fs.Upload(ctx, configURL, file.DefaultFileOsMode, strings.NewReader("worker_count: 3\nqueue: channel\n")))
	inputURL := "mem://localhost/primecount/cmd/values.txt"
	require.NoError(t, fs.Upload(ctx, inputURL, file.DefaultFileOsMode, strings.NewReader("5 6 7 8")))
	reportURL := "mem://localhost/primecount/cmd/report.yaml"

	t.Setenv("PRIMECOUNT_WORKERS", "2")
	out, err := execute(t, "", "--config", configURL, "--report", reportURL, "--usage", inputURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2 total primes.\n"), out)

	data, err := fs.DownloadWithURL(ctx, reportURL)
	require.NoError(t, err)
	report := map[string]interface{}{}
	require.NoError(t, yaml.Unmarshal(data, &report))
	assert.Equal(t, 2, report["workers"])
	assert.Equal(t, "channel", report["queue"])
	assert.EqualValues(t, 2, report["primes"])
}

func TestGenerate(t *testing.T) {
	out, err := execute(t, "", "generate", "-n", "25", "--max", "10")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 25)

	ctx := context.Background()
	URL := "mem://localhost/primecount/cmd/generated.txt"
	_, err = execute(t, "", "generate", "-n", "10", "--max", "1000", "-o", URL)
	require.NoError(t, err)
	counted, err := execute(t, "", URL)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(counted, "total primes.\n"))
	data, err := afs.New().DownloadWithURL(ctx, URL)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(string(data)), 10)
}
