package runstore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/parquet"
)

// ExportHistory writes every recorded run and unit cost to Parquet files named
// after outputFile, and reports progress to w.
func ExportHistory(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total unit costs: %d\n", status.TableSizes[unitCostsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	unitCosts, err := store.GetAllUnitCosts()
	if err != nil {
		return fmt.Errorf("failed to retrieve unit costs: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	parquetCosts := parquet.ConvertUnitCostRecords(unitCosts)
	costsFile := outputFile + ".unit_costs.parquet"
	if err := parquet.WriteUnitCostsParquet(parquetCosts, costsFile); err != nil {
		return fmt.Errorf("failed to write unit costs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d unit costs to: %s\n", len(parquetCosts), costsFile)

	return nil
}
