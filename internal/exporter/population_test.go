package exporter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "statepop/internal/errors"
	"statepop/internal/shared/testutil"
	"statepop/pkg/contracts/domain"
)

func sampleRecords() []domain.PopulationRecord {
	return []domain.PopulationRecord{
		{Year: 1899, State: "Testland", StateCode: "TL", Estimation: domain.Undetermined},
		{Year: 1900, State: "Testland", StateCode: "TL", Population: ptr(100), Estimation: domain.Known},
		{Year: 1901, State: "Testland", StateCode: "TL", Population: ptr(101), Estimation: domain.Estimated},
	}
}

func TestPopulationExporter_CSV(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	n, err := NewPopulationExporter(nil, logger).Export(path, slices.Values(sampleRecords()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	testutil.AssertNoErrors(t, logs)

	assert.Equal(t, []string{
		"Year,State,State Code,Population,Estimated",
		"1899,Testland,TL,,",
		"1900,Testland,TL,100,False",
		"1901,Testland,TL,101,True",
	}, testutil.ReadLines(t, path))
}

func TestPopulationExporter_EmptySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	n, err := NewPopulationExporter(nil, nil).Export(path, slices.Values([]domain.PopulationRecord(nil)))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{"Year,State,State Code,Population,Estimated"}, testutil.ReadLines(t, path))
}

func TestPopulationExporter_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	n, err := NewPopulationExporter(nil, nil).Export(path, slices.Values(sampleRecords()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PopulationSheet}, f.GetSheetList())
	rows, err := f.GetRows(PopulationSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, PopulationHeaders, rows[0])
	assert.Equal(t, []string{"1899", "Testland", "TL"}, rows[1])
	assert.Equal(t, []string{"1900", "Testland", "TL", "100", "FALSE"}, rows[2])
	assert.Equal(t, []string{"1901", "Testland", "TL", "101", "TRUE"}, rows[3])
}

func TestPopulationExporter_WriteFailure(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewPopulationExporter(nil, logger).Export(filepath.Join(blocker, "out.csv"), slices.Values(sampleRecords()))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
	assert.Equal(t, 1, len(logs.GetRecords()))
}

func TestWriteCSVStream(t *testing.T) {
	var buf bytes.Buffer
	sw, err := NewStreamWriter(&buf, PopulationHeaders)
	require.NoError(t, err)

	n, err := WriteCSVStream(sw, slices.Values(sampleRecords()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Year,State,State Code,Population,Estimated\n1899,Testland,TL,,\n1900,Testland,TL,100,False\n1901,Testland,TL,101,True\n", buf.String())
}
