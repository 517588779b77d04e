package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "statepop/internal/errors"
	"statepop/internal/shared/testutil"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(existing, []byte("stateLabel,year,population\n"), 0644))

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{name: "existing file", path: existing},
		{name: "missing file", path: filepath.Join(dir, "missing.csv"), wantType: apperrors.ErrTypeMissingInput},
		{name: "directory", path: dir, wantType: apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			v := NewFileValidator(logger)

			err := v.ValidateFile(tt.path)
			if tt.wantType == "" {
				assert.NoError(t, err)
				testutil.AssertNoErrors(t, logs)
				return
			}
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestFileValidator_MissingInputMessage(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "1_wikidata_query_results.csv")

	err := NewFileValidator(logger).ValidateFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.ErrorIs(t, err, os.ErrNotExist)
	testutil.AssertLogContains(t, logs, slog.LevelError, "does not exist")
}

func TestFileValidator_ValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		return p
	}

	v := NewFileValidator(nil)

	assert.NoError(t, v.ValidateInputFile(write("in.csv")))
	assert.NoError(t, v.ValidateInputFile(write("in.XLSX")))
	assert.NoError(t, v.ValidateInputFile(write("noext")))
	assert.True(t, apperrors.IsType(v.ValidateInputFile(write("in.json")), apperrors.ErrTypeValidation))
	assert.True(t, apperrors.IsType(v.ValidateInputFile(write("~$in.xlsx")), apperrors.ErrTypeValidation))
	assert.True(t, apperrors.IsType(v.ValidateInputFile(filepath.Join(dir, "gone.csv")), apperrors.ErrTypeMissingInput))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	out := filepath.Join(t.TempDir(), "a", "b", "out.csv")

	require.NoError(t, v.ValidateOutputDirectory(out))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	err = v.ValidateOutputDirectory(filepath.Join(blocker, "out.csv"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
