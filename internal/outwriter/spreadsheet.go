package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/schema"
	"github.com/xuri/excelize/v2"
)

// sheetName matches the default sheet of common spreadsheet exporters.
const sheetName = "Sheet1"

// spreadsheetHeader is the header fields plus one trailing unnamed column.
func spreadsheetHeader(h perflog.Header) []string {
	out := make([]string, 0, len(h.Fields)+1)
	out = append(out, h.Fields...)
	return append(out, "")
}

// WriteSpreadsheet writes every record of the log as a spreadsheet row.
func WriteSpreadsheet(w io.Writer, lg *perflog.Log, format schema.SheetFormat) error {
	switch format {
	case schema.CSVSheet:
		return writeCSVSpreadsheet(w, lg)
	case schema.XLSXSheet, "":
		return writeXLSXSpreadsheet(w, lg)
	default:
		return fmt.Errorf("unsupported spreadsheet format %q", format)
	}
}

func writeCSVSpreadsheet(w io.Writer, lg *perflog.Log) error {
	return writeCSVWithHeader(w, spreadsheetHeader(lg.Header), func(cw *csv.Writer) error {
		row := make([]string, len(lg.Header.Fields)+1)
		for _, rec := range lg.Records {
			for i, v := range rec.Ints() {
				row[i] = strconv.FormatInt(v, 10)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeXLSXSpreadsheet(w io.Writer, lg *perflog.Log) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet writer: %w", err)
	}

	header := spreadsheetHeader(lg.Header)
	cells := make([]any, len(header))
	for i, name := range header {
		cells[i] = name
	}
	if err := sw.SetRow("A1", cells); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range lg.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		ints := rec.Ints()
		values := make([]any, len(ints))
		for j, v := range ints {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rec.Row, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
