package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"statepop/pkg/contracts/domain"
)

// PopulationSheet is the worksheet name used for Excel output
const PopulationSheet = "Population"

// writeExcel writes records to a new workbook at path. Year and population are
// numeric cells; the estimation flag is a boolean cell or empty.
func writeExcel(path string, records []domain.PopulationRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PopulationSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(PopulationSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet writer: %w", err)
	}

	header := make([]interface{}, len(PopulationHeaders))
	for i, h := range PopulationHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, excelRow(rec)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	return writeAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
}

func excelRow(rec domain.PopulationRecord) []interface{} {
	var pop, estimated interface{}
	if rec.Population != nil {
		pop = *rec.Population
	}
	if flag := rec.Estimated(); flag != nil {
		estimated = *flag
	}
	return []interface{}{rec.Year, rec.State, rec.StateCode, pop, estimated}
}
