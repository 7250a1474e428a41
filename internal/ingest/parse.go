// Package ingest turns uploaded schedule documents into games and field
// locations. Structured documents (CSV, TSV, JSON, XLSX) are parsed directly;
// anything else is kept as free text for LLM extraction.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// RawRow is a single parsed record keyed by the document's own column names.
type RawRow map[string]any

// parseFile dispatches on the filename extension. It returns either parsed
// rows or the raw text of an unstructured document. A non-nil error means the
// document itself could not be parsed; callers surface it as a batch-level
// warning rather than failing the request.
func parseFile(filename string, data []byte) ([]RawRow, string, error) {
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx+1:])
	}

	switch ext {
	case "csv":
		rows, err := parseDelimited(data, ',')
		return rows, "", err
	case "tsv":
		rows, err := parseDelimited(data, '\t')
		return rows, "", err
	case "json":
		rows, err := parseJSON(data)
		return rows, "", err
	case "xlsx":
		rows, err := parseXLSX(data)
		return rows, "", err
	}

	return nil, string(data), nil
}

func parseDelimited(data []byte, delimiter rune) ([]RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read header")
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read row")
		}
		row := make(RawRow, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseJSON(data []byte) ([]RawRow, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "ingest: parse json")
	}

	switch v := doc.(type) {
	case []any:
		return wrapList(v), nil
	case map[string]any:
		if rows, ok := v["rows"].([]any); ok {
			return wrapList(rows), nil
		}
		return []RawRow{v}, nil
	}
	return nil, nil
}

// wrapList converts list elements to rows, wrapping non-object values so
// downstream normalization can warn on them instead of dropping silently.
func wrapList(items []any) []RawRow {
	rows := make([]RawRow, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			rows = append(rows, obj)
		} else {
			rows = append(rows, RawRow{"value": item})
		}
	}
	return rows
}

func parseXLSX(data []byte) ([]RawRow, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, nil
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := make([]string, 0, len(sheet.Rows[0].Cells))
	for _, cell := range sheet.Rows[0].Cells {
		header = append(header, cell.String())
	}

	var rows []RawRow
	for _, sheetRow := range sheet.Rows[1:] {
		row := make(RawRow, len(header))
		for i, cell := range sheetRow.Cells {
			if i < len(header) {
				row[header[i]] = cell.String()
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
