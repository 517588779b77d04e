// Package exporter writes densified population records to disk.
//
// CSVWriter is the low level writer: headers, records, optional UTF-8 BOM and
// a streaming variant for HTTP responses. PopulationExporter turns a record
// sequence into either a CSV file or an Excel workbook depending on the output
// extension.
//
// Files are written to a temporary sibling and renamed into place, so a failed
// run never leaves a partial output file behind.
//
// Example usage:
//
//	exp := exporter.NewPopulationExporter(paths, logger)
//	n, err := exp.Export("2_wikidata_processed_results.csv", processor.Export(1600, 2018))
package exporter
