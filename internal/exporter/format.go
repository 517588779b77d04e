package exporter

import (
	"strconv"

	"statepop/pkg/contracts/domain"
)

// PopulationHeaders is the fixed output column order
var PopulationHeaders = []string{"Year", "State", "State Code", "Population", "Estimated"}

// FormatRecord renders a record as CSV cells. An absent population and an
// undetermined estimation flag are both written as empty cells.
func FormatRecord(rec domain.PopulationRecord) []string {
	pop := ""
	if rec.Population != nil {
		pop = formatInt(*rec.Population)
	}
	estimated := ""
	if flag := rec.Estimated(); flag != nil {
		estimated = formatBool(*flag)
	}
	return []string{strconv.Itoa(rec.Year), rec.State, rec.StateCode, pop, estimated}
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean as True or False
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
