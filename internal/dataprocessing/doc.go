// Package dataprocessing reads raw population tables into header-keyed rows.
//
// Two formats are supported:
//
//  1. CSV with a header row (any extension other than .xlsx)
//  2. Excel workbooks (.xlsx), read from the first sheet
//
// Each data row becomes a domain.Row mapping header name to cell text. Rows
// shorter than the header leave the trailing columns absent, extra cells are
// dropped and blank lines are skipped.
//
// # Usage
//
//	rows, err := dataprocessing.ReadRows("1_wikidata_query_results.csv")
//	if err != nil {
//	    return err
//	}
package dataprocessing
