package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/parquet"
	"github.com/huangsam/perflog/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteDispatchResults outputs the dispatch results, dispatching based on the output format configured.
func WriteDispatchResults(w io.Writer, result *schema.DispatchResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForDispatch(w, result, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteUnitCosts(w, parquet.FromPartition(0, result.Partitioned)); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		if err := writeDispatchTable(w, result, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing dispatch table output: %w", err)
		}
	}
	return nil
}

// writeCSVResultsForDispatch writes one row per reconstructed unit in unit order.
func writeCSVResultsForDispatch(w io.Writer, result *schema.DispatchResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"unit", "value", "band"}
	rows := parquet.FromPartition(0, result.Partitioned)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{fmt.Sprintf(intFmt, r.Unit), fmtFloat(r.Value), r.Band}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDispatchTable prints the summary, the per-band table and, with detail, the unit table.
func writeDispatchTable(w io.Writer, result *schema.DispatchResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	ps := result.Partitioned

	// --- 1. Summary ---
	summary := [][]string{
		{"Source", contract.TruncatePath(result.Source, getMaxTablePathWidth(cfg))},
		{"Driver", result.Reconstructed.DriverField},
		{"Cost", result.Reconstructed.DependentField},
		{"Rows Read", strconv.Itoa(result.RowsRead)},
		{"Samples Kept", strconv.Itoa(len(result.Reconstructed.Collapsed))},
		{"Units", strconv.Itoa(len(result.Reconstructed.Units))},
		{"Percentile", fmtFloat(ps.Percentile)},
		{"Threshold", fmtFloat(ps.Threshold)},
	}
	if err := renderTable(w, []string{"Metric", "Value"}, summary, tw.AlignLeft); err != nil {
		return err
	}

	// --- 2. Bands ---
	var bands [][]string
	for _, s := range []schema.BandSummary{result.Typical, result.Tail} {
		bands = append(bands, []string{
			bandLabel(s.Band, cfg),
			fmt.Sprintf(intFmt, s.Count),
			fmtFloat(s.Sum),
			fmtFloat(s.Mean),
			fmtFloat(s.Max),
			formatShare(s.Share, cfg.Precision),
		})
	}
	if err := renderTable(w, []string{"Band", "Count", "Sum", "Mean", "Max", "Share"}, bands, tw.AlignRight); err != nil {
		return err
	}

	// --- 3. Units ---
	if cfg.Detail {
		rows := parquet.FromPartition(0, ps)
		n := limitRows(len(rows), cfg.ResultLimit)
		data := make([][]string, 0, n)
		for _, r := range rows[:n] {
			data = append(data, []string{
				fmt.Sprintf(intFmt, r.Unit),
				fmtFloat(r.Value),
				bandLabel(schema.Band(r.Band), cfg),
			})
		}
		if err := renderTable(w, []string{"Unit", "Cost", "Band"}, data, tw.AlignRight); err != nil {
			return err
		}
		if n < len(rows) {
			_, _ = fmt.Fprintf(w, "Showing %d of %d units (use --limit 0 to show all)\n", n, len(rows))
		}
	}

	_, err := fmt.Fprintf(w, "Dispatch analysis completed in %v. History backend: %s\n", result.Elapsed, cfg.HistoryBackend)
	return err
}

// renderTable renders a simple table with one global row alignment.
func renderTable(w io.Writer, headers []string, data [][]string, align tw.Align) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = align
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
