// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/perflog"
	"github.com/huangsam/perflog/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDispatch prints dispatch analysis results using the configured output format.
func (ow *OutWriter) WriteDispatch(result *schema.DispatchResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteDispatchResults(w, result, cfg)
	}, fmt.Sprintf("Wrote %s dispatch results", cfg.Output))
}

// WriteWorkers prints worker-state results using the configured output format.
func (ow *OutWriter) WriteWorkers(result *schema.WorkerResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteWorkerResults(w, result, cfg)
	}, fmt.Sprintf("Wrote %s worker results", cfg.Output))
}

// WriteHeader prints the fields discovered in a log header.
func (ow *OutWriter) WriteHeader(location string, header perflog.Header, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHeaderFields(w, location, header, cfg)
	}, "Wrote header fields")
}

// WriteHistoryStatus prints the run history status.
func (ow *OutWriter) WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHistoryStatus(w, status, cfg)
	}, "Wrote history status")
}

// WriteDispatchChart renders the three-panel dispatch chart to a PNG file.
func (ow *OutWriter) WriteDispatchChart(result *schema.DispatchResult, path string) error {
	return writeChartFile(path, func(w io.Writer) error {
		return RenderDispatchChart(w, result)
	}, "Wrote dispatch chart")
}

// WriteWorkerChart renders the worker-state chart to a PNG file.
func (ow *OutWriter) WriteWorkerChart(result *schema.WorkerResult, path string) error {
	return writeChartFile(path, func(w io.Writer) error {
		return RenderWorkerChart(w, result)
	}, "Wrote worker chart")
}

// WriteSpreadsheet converts the raw log into a spreadsheet file.
func (ow *OutWriter) WriteSpreadsheet(lg *perflog.Log, format schema.SheetFormat, path string) error {
	if path == "" {
		return fmt.Errorf("spreadsheet output requires a file path")
	}
	return writeWithFile(path, func(w io.Writer) error {
		return WriteSpreadsheet(w, lg, format)
	}, fmt.Sprintf("Wrote %s spreadsheet", format))
}

// writeChartFile is writeWithFile for binary artifacts that must never go to stdout.
func writeChartFile(path string, render func(io.Writer) error, successMsg string) error {
	if path == "" {
		return fmt.Errorf("chart output requires a file path")
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, path)
	return nil
}
