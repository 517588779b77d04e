package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "statepop/internal/errors"
	"statepop/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ReadRows reads the table at path, choosing the format by extension
func ReadRows(path string) ([]domain.Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadExcel(path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewMissingInputError(path, err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// ReadCSV reads a CSV table whose first record is the header
func ReadCSV(r io.Reader) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.Row{}, nil
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV header", err)
	}

	var rows []domain.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read CSV record", err)
		}
		rows = append(rows, toRow(header, record))
	}
	return rows, nil
}

// ReadExcel reads the first sheet of an .xlsx workbook whose first row is the header
func ReadExcel(path string) ([]domain.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewMissingInputError(path, err)
		}
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []domain.Row{}, nil
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}
	if len(cells) == 0 {
		return []domain.Row{}, nil
	}

	header := cells[0]
	rows := make([]domain.Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, toRow(header, record))
	}
	return rows, nil
}

func toRow(header, record []string) domain.Row {
	row := make(domain.Row, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		row[name] = record[i]
	}
	return row
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
