package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/schema"
	"github.com/olekukonko/tablewriter/tw"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// WriteHistoryStatus prints run history status information.
func WriteHistoryStatus(w io.Writer, status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "History Backend: %s\n", status.Backend)
	fmt.Fprintf(&b, "Connected: %t\n", status.Connected)
	if status.Connected {
		fmt.Fprintf(&b, "Total Runs: %d\n", status.TotalRuns)
		if status.TotalRuns > 0 {
			fmt.Fprintf(&b, "Last Run ID: %d\n", status.LastRunID)
			fmt.Fprintf(&b, "Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
			fmt.Fprintf(&b, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
			fmt.Fprintf(&b, "Total Rows Read: %d\n", status.TotalRowsRead)
		}
		b.WriteString("Table Sizes:\n")
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		slices.Sort(tables)
		for _, table := range tables {
			fmt.Fprintf(&b, "  %s: %d rows\n", table, status.TableSizes[table])
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHeaderFields prints the field names found in a log header with their column positions.
func WriteHeaderFields(w io.Writer, location string, header perflog.Header, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Source string   `json:"source"`
			Line   int      `json:"line"`
			Fields []string `json:"fields"`
		}{location, header.Line, header.Fields})
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"column", "field"}, func(cw *csv.Writer) error {
			for i, f := range header.Fields {
				if err := cw.Write([]string{fmt.Sprint(i), f}); err != nil {
					return err
				}
			}
			return nil
		})
	}

	data := make([][]string, 0, len(header.Fields))
	for i, f := range header.Fields {
		data = append(data, []string{fmt.Sprint(i), f})
	}
	if err := renderTable(w, []string{"Column", "Field"}, data, tw.AlignLeft); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Header found on line %d of %s\n", header.Line, location)
	return err
}
