package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/parquet"
	"github.com/huangsam/perflog/schema"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteWorkerResults outputs the filled state series, dispatching based on the output format configured.
func WriteWorkerResults(w io.Writer, result *schema.WorkerResult, cfg *contract.Config) error {
	_, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForWorkers(w, result, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteStatePoints(w, parquet.FromStateSeries(result.Series)); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		if err := writeWorkerTable(w, result, cfg, intFmt); err != nil {
			return fmt.Errorf("error writing worker table output: %w", err)
		}
	}
	return nil
}

// stateHeader returns the driver column followed by the state columns.
func stateHeader(ss schema.StateSeries) []string {
	return append([]string{ss.DriverField}, ss.StateFields...)
}

func stateRow(p schema.StatePoint, intFmt string) []string {
	row := make([]string, 0, len(p.Values)+1)
	row = append(row, fmt.Sprintf(intFmt, p.Driver))
	for _, v := range p.Values {
		row = append(row, fmt.Sprintf(intFmt, v))
	}
	return row
}

// writeCSVResultsForWorkers writes every filled point, plus the source row index.
func writeCSVResultsForWorkers(w io.Writer, result *schema.WorkerResult, intFmt string) error {
	header := append(stateHeader(result.Series), "row")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Series.Points {
			if err := cw.Write(append(stateRow(p, intFmt), strconv.Itoa(p.Row))); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeWorkerTable prints a summary followed by the first --limit filled points.
func writeWorkerTable(w io.Writer, result *schema.WorkerResult, cfg *contract.Config, intFmt string) error {
	ss := result.Series
	summary := [][]string{
		{"Source", contract.TruncatePath(result.Source, getMaxTablePathWidth(cfg))},
		{"Driver", ss.DriverField},
		{"States", strings.Join(ss.StateFields, ", ")},
		{"Rows Read", strconv.Itoa(result.RowsRead)},
		{"Points", strconv.Itoa(len(ss.Points))},
		{"Last " + ss.DriverField, fmt.Sprintf(intFmt, result.LastDriver)},
	}
	if len(ss.StateFields) > 0 {
		summary = append(summary, []string{"Max " + ss.StateFields[0], fmt.Sprintf(intFmt, result.MaxWorkers)})
	}
	if err := renderTable(w, []string{"Metric", "Value"}, summary, tw.AlignLeft); err != nil {
		return err
	}

	n := limitRows(len(ss.Points), cfg.ResultLimit)
	data := make([][]string, 0, n)
	for _, p := range ss.Points[:n] {
		data = append(data, stateRow(p, intFmt))
	}
	if err := renderTable(w, stateHeader(ss), data, tw.AlignRight); err != nil {
		return err
	}
	if n < len(ss.Points) {
		_, _ = fmt.Fprintf(w, "Showing %d of %d points (use --limit 0 to show all)\n", n, len(ss.Points))
	}

	_, err := fmt.Fprintf(w, "Worker analysis completed in %v. History backend: %s\n", result.Elapsed, cfg.HistoryBackend)
	return err
}
