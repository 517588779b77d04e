package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statepop/internal/config"
	apperrors "statepop/internal/errors"
	"statepop/internal/infrastructure"
	"statepop/internal/shared/testutil"
	"statepop/internal/states"
)

func runDensify(t *testing.T, args ...string) error {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var stderr bytes.Buffer
	return run(context.Background(), args, &stderr)
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultInputFile, opts.input)
	assert.Equal(t, config.DefaultOutputFile, opts.output)
	assert.Equal(t, 1600, opts.start)
	assert.Equal(t, 2018, opts.end)
	assert.Equal(t, []string{"stateLabel", "year", "population"}, opts.columns)

	cfg := config.Default()
	cfg.Densify.StartYear = 1700
	opts.apply(cfg)
	assert.Equal(t, 1700, cfg.Densify.StartYear, "unset flags must not override configuration")
}

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"-i", "in.csv",
		"--output", "out.csv",
		"-s", "1900",
		"-e=1950",
		"-c", "name,yr,pop,extra",
		"--log-level", "debug",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg := config.Default()
	opts.apply(cfg)
	assert.Equal(t, "in.csv", cfg.Densify.Input)
	assert.Equal(t, "out.csv", cfg.Densify.Output)
	assert.Equal(t, 1900, cfg.Densify.StartYear)
	assert.Equal(t, 1950, cfg.Densify.EndYear)
	assert.Equal(t, []string{"name", "yr", "pop", "extra"}, cfg.Densify.Columns)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseFlags_SpaceSeparatedColumns(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "space separated", args: []string{"-c", "stateLabel", "year", "population"}, want: []string{"stateLabel", "year", "population"}},
		{name: "long flag", args: []string{"--colnames", "name", "yr", "pop", "-s", "1900"}, want: []string{"name", "yr", "pop"}},
		{name: "mixed", args: []string{"-c", "name,yr", "pop"}, want: []string{"name", "yr", "pop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, &bytes.Buffer{})
			require.NoError(t, err)

			cfg := config.Default()
			opts.apply(cfg)
			assert.Equal(t, tt.want, cfg.Densify.Columns)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	_, err := parseFlags([]string{"--start", "soon"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = parseFlags([]string{"stray"}, &bytes.Buffer{})
	assert.Error(t, err)

	var help bytes.Buffer
	_, err = parseFlags([]string{"--help"}, &help)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, help.String(), "--colnames")
}

func TestRun(t *testing.T) {
	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)
	output := filepath.Join(t.TempDir(), "processed.csv")

	err := runDensify(t, "-i", input, "-o", output, "-s", "1919", "-e", "1921")
	require.NoError(t, err)

	lines := testutil.ReadLines(t, output)
	require.Len(t, lines, 1+3*states.Count)
	assert.Equal(t, "Year,State,State Code,Population,Estimated", lines[0])
	assert.Equal(t, "1919,Alabama,AL,1550,True", lines[1])
	assert.Equal(t, "1920,Alabama,AL,1500,False", lines[2])
	assert.Equal(t, "1921,Alabama,AL,,", lines[3])
}

func TestRun_ConfigFile(t *testing.T) {
	input := testutil.WriteFile(t, "raw.csv", "name,yr,pop\nAlaska,1950,400\nAlaska,1960,500\n")
	output := filepath.Join(t.TempDir(), "processed.csv")
	cfgFile := testutil.WriteFile(t, "config.yaml", `densify:
  input: `+input+`
  output: `+output+`
  start_year: 1955
  end_year: 1955
  columns: [name, yr, pop]
`)

	require.NoError(t, runDensify(t, "--config", cfgFile))

	lines := testutil.ReadLines(t, output)
	assert.Contains(t, lines, "1955,Alaska,AK,450,True")
}

func TestRun_Failures(t *testing.T) {
	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)

	tests := []struct {
		name    string
		args    []string
		errType apperrors.ErrorType
	}{
		{
			name:    "missing input",
			args:    []string{"-i", filepath.Join(t.TempDir(), "missing.csv")},
			errType: apperrors.ErrTypeMissingInput,
		},
		{
			name:    "too few column names",
			args:    []string{"-i", input, "-c", "stateLabel,year"},
			errType: apperrors.ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), "processed.csv")
			err := runDensify(t, append(tt.args, "-o", output)...)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)

			_, statErr := os.Stat(output)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
