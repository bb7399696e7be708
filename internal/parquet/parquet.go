// Package parquet provides data structures and functions for exporting perflog
// results and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/perflog/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single recorded analysis run.
// This struct maps to the perflog_runs database table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	Kind          string     `parquet:"kind,snappy,dict"`
	Source        string     `parquet:"source,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	RowsRead      int32      `parquet:"rows_read,snappy"`
	PointsWritten int32      `parquet:"points_written,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// UnitCost is the cost attributed to one driver unit.
// This struct maps to the perflog_unit_costs database table; RunID is 0 for
// rows written straight from an analysis.
type UnitCost struct {
	RunID int64   `parquet:"run_id,snappy"`
	Unit  int64   `parquet:"unit,delta"`
	Value float64 `parquet:"value,snappy"`
	Band  string  `parquet:"band,snappy,dict"`
}

// StatePoint is one gap-filled state tuple. State columns are stored as a list
// in the order of StateFields.
type StatePoint struct {
	Driver int64   `parquet:"driver,delta"`
	Row    int32   `parquet:"row,snappy"`
	Values []int64 `parquet:"values,list"`
}

// writeRows writes rows of any parquet-tagged struct to w.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteUnitCostsParquet writes a slice of UnitCost structs to a Parquet file.
func WriteUnitCostsParquet(data []UnitCost, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteUnitCosts writes unit costs to w.
func WriteUnitCosts(w io.Writer, data []UnitCost) error {
	return writeRows(w, data)
}

// WriteStatePoints writes state points to w.
func WriteStatePoints(w io.Writer, data []StatePoint) error {
	return writeRows(w, data)
}

// FromPartition flattens a partition into unit cost rows ordered by unit.
func FromPartition(runID int64, ps schema.PartitionedSeries) []UnitCost {
	out := make([]UnitCost, 0, len(ps.Below)+len(ps.AtOrAbove))
	i, j := 0, 0
	for i < len(ps.Below) || j < len(ps.AtOrAbove) {
		if j >= len(ps.AtOrAbove) || (i < len(ps.Below) && ps.Below[i].Unit < ps.AtOrAbove[j].Unit) {
			u := ps.Below[i]
			out = append(out, UnitCost{RunID: runID, Unit: u.Unit, Value: u.Value, Band: string(schema.TypicalBand)})
			i++
			continue
		}
		u := ps.AtOrAbove[j]
		out = append(out, UnitCost{RunID: runID, Unit: u.Unit, Value: u.Value, Band: string(schema.TailBand)})
		j++
	}
	return out
}

// FromStateSeries converts a state series into rows.
func FromStateSeries(ss schema.StateSeries) []StatePoint {
	out := make([]StatePoint, len(ss.Points))
	for i, p := range ss.Points {
		out[i] = StatePoint{Driver: p.Driver, Row: int32(p.Row), Values: p.Values}
	}
	return out
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			Kind:          record.Kind,
			Source:        record.Source,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			RowsRead:      record.RowsRead,
			PointsWritten: record.PointsWritten,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertUnitCostRecords converts schema.UnitCostRecord to UnitCost for Parquet export.
func ConvertUnitCostRecords(records []schema.UnitCostRecord) []UnitCost {
	result := make([]UnitCost, len(records))
	for i, record := range records {
		result[i] = UnitCost{RunID: record.RunID, Unit: record.Unit, Value: record.Value, Band: record.Band}
	}
	return result
}
