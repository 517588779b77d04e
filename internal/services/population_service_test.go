package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statepop/internal/config"
	apperrors "statepop/internal/errors"
	"statepop/internal/infrastructure"
	"statepop/internal/integrity"
	"statepop/internal/population"
	"statepop/internal/shared/testutil"
	"statepop/internal/states"
)

func newTestService(t *testing.T) (*PopulationService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	svc, err := NewPopulationService(nil, logger)
	require.NoError(t, err)
	return svc, handler
}

func TestPopulationService_Densify(t *testing.T) {
	svc, handler := newTestService(t)
	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)
	output := filepath.Join(t.TempDir(), "out", "population.csv")

	result, err := svc.Densify(context.Background(), DensifyRequest{
		Input:     input,
		Output:    output,
		StartYear: 1905,
		EndYear:   1906,
		Columns:   config.DefaultColumns(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 4, result.RowsLoaded)
	assert.Equal(t, 2*states.Count, result.RecordsExported)
	assert.Equal(t, 2, result.Stats.StatesWithData)

	ok, err := integrity.Verify(output, result.OutputChecksum)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = integrity.Verify(input, result.InputChecksum)
	require.NoError(t, err)
	assert.True(t, ok)

	lines := testutil.ReadLines(t, output)
	require.Len(t, lines, 1+2*states.Count)
	assert.Equal(t, "Year,State,State Code,Population,Estimated", lines[0])
	assert.Equal(t, "1905,Alabama,AL,1500,True", lines[1])
	assert.Equal(t, "1906,Alabama,AL,1600,True", lines[2])
	assert.Equal(t, "1905,Alaska,AK,,", lines[3])

	var progress []string
	for _, r := range handler.GetRecordsByLevel(slog.LevelInfo) {
		progress = append(progress, r.Message)
	}
	assert.Equal(t, []string{
		"Reading raw query results from input csv...",
		"Calculating estimated population for missing years...",
		"Saving processed population data to export csv...",
		"Finished!",
	}, progress)
	testutil.AssertNoErrors(t, handler)
}

func TestPopulationService_DensifyExcelOutput(t *testing.T) {
	svc, _ := newTestService(t)
	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)
	output := filepath.Join(t.TempDir(), "population.xlsx")

	result, err := svc.Densify(context.Background(), DensifyRequest{
		Input:     input,
		Output:    output,
		StartYear: 1900,
		EndYear:   1900,
		Columns:   config.DefaultColumns(),
	})
	require.NoError(t, err)
	assert.Equal(t, states.Count, result.RecordsExported)
	assert.FileExists(t, output)
}

func TestPopulationService_DensifyEmptyRange(t *testing.T) {
	svc, _ := newTestService(t)
	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)
	output := filepath.Join(t.TempDir(), "population.csv")

	result, err := svc.Densify(context.Background(), DensifyRequest{
		Input:     input,
		Output:    output,
		StartYear: 2000,
		EndYear:   1990,
		Columns:   config.DefaultColumns(),
	})
	require.NoError(t, err)
	assert.Zero(t, result.RecordsExported)
	assert.Equal(t, []string{"Year,State,State Code,Population,Estimated"}, testutil.ReadLines(t, output))
}

func TestPopulationService_DensifyFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		columns []string
		errType apperrors.ErrorType
	}{
		{
			name:    "missing input",
			input:   "",
			columns: config.DefaultColumns(),
			errType: apperrors.ErrTypeMissingInput,
		},
		{
			name:    "unknown state",
			input:   "stateLabel,year,population\nAtlantis,1900,10\n",
			columns: config.DefaultColumns(),
			errType: apperrors.ErrTypeNotFound,
		},
		{
			name:    "bad population",
			input:   "stateLabel,year,population\nAlabama,1900,lots\n",
			columns: config.DefaultColumns(),
			errType: apperrors.ErrTypeValidation,
		},
		{
			name:    "missing column",
			input:   "name,year,population\nAlabama,1900,10\n",
			columns: config.DefaultColumns(),
			errType: apperrors.ErrTypeValidation,
		},
		{
			name:    "too few columns configured",
			input:   testutil.TestlandCSV,
			columns: []string{"stateLabel", "year"},
			errType: apperrors.ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			input := filepath.Join(t.TempDir(), "missing.csv")
			if tt.input != "" {
				input = testutil.WriteFile(t, "raw.csv", tt.input)
			}
			output := filepath.Join(t.TempDir(), "population.csv")

			result, err := svc.Densify(context.Background(), DensifyRequest{
				Input:     input,
				Output:    output,
				StartYear: 1900,
				EndYear:   1901,
				Columns:   tt.columns,
			})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperrors.IsType(err, tt.errType), "got %v", err)

			_, statErr := os.Stat(output)
			assert.True(t, os.IsNotExist(statErr), "output must not be written on failure")
		})
	}
}

func TestPopulationService_DensifyLogsStageFailure(t *testing.T) {
	svc, handler := newTestService(t)
	input := testutil.WriteFile(t, "raw.csv", "stateLabel,year,population\nAtlantis,1900,10\n")

	_, err := svc.Densify(context.Background(), DensifyRequest{
		Input:     input,
		Output:    filepath.Join(t.TempDir(), "population.csv"),
		StartYear: 1900,
		EndYear:   1900,
		Columns:   config.DefaultColumns(),
	})
	require.ErrorIs(t, err, population.ErrUnknownEntity)

	testutil.AssertLogContains(t, handler, slog.LevelError, "Stage failed")
	testutil.AssertLogAttr(t, handler, "stage", "load")
	assert.False(t, handler.ContainsMessage("Finished!"))
}

func TestPopulationService_DensifyCancelled(t *testing.T) {
	svc, handler := newTestService(t)
	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)
	output := filepath.Join(t.TempDir(), "population.csv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Densify(ctx, DensifyRequest{
		Input:     input,
		Output:    output,
		StartYear: 1900,
		EndYear:   1910,
		Columns:   config.DefaultColumns(),
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)

	testutil.AssertLogAttr(t, handler, "stage", "estimate")
	assert.NoFileExists(t, output)
}

func TestPopulationService_WithProviders(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:   "statepop-test",
		EnableMetrics: true,
	}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	logger, _ := testutil.NewTestLogger(t)
	svc, err := NewPopulationService(providers, logger)
	require.NoError(t, err)
	require.NotNil(t, svc.metrics)

	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)
	_, err = svc.Densify(context.Background(), DensifyRequest{
		Input:     input,
		Output:    filepath.Join(t.TempDir(), "population.csv"),
		StartYear: 1900,
		EndYear:   1900,
		Columns:   config.DefaultColumns(),
	})
	require.NoError(t, err)

	families, err := providers.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "densify_runs_total")
}

func TestPopulationService_LoadDataset(t *testing.T) {
	svc, handler := newTestService(t)
	input := testutil.WriteFile(t, "raw.csv", testutil.TestlandCSV)

	p, err := svc.LoadDataset(context.Background(), input, config.DefaultColumns())
	require.NoError(t, err)

	s, ok := p.SeriesByCode("AL")
	require.True(t, ok)
	v, err := s.PopulationAt(1915)
	require.NoError(t, err)
	assert.EqualValues(t, 1750, v)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Dataset loaded")

	_, err = svc.LoadDataset(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), config.DefaultColumns())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
}

func TestNewDensifyRequest(t *testing.T) {
	cfg := config.Default().Densify
	req := NewDensifyRequest(cfg)

	assert.Equal(t, cfg.Input, req.Input)
	assert.Equal(t, cfg.Output, req.Output)
	assert.Equal(t, 1600, req.StartYear)
	assert.Equal(t, 2018, req.EndYear)
	assert.Equal(t, cfg.Columns, req.Columns)

	req.Columns[0] = "changed"
	assert.NotEqual(t, "changed", cfg.Columns[0])
}
