// Package main provides a performance benchmarking tool for the perflog CLI.
// It generates synthetic manager logs of increasing size, runs each analysis
// command multiple times, treating the first successful run as cold and
// averaging the rest as warm, and writes CSV output for documentation.
//
// Prerequisites:
// - perflog binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic logs are generated
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-history average, cold run and average of warm runs).
type BenchmarkResult struct {
	LogSize       string
	Command       string
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir       string
	Timeout       time.Duration
	NoHistoryRuns int
	HistoryRuns   int
	LogSizes      map[string]int // label -> number of data rows
	SizeOrder     []string
	Commands      []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:       os.Args[1],
		Timeout:       5 * time.Minute,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		LogSizes: map[string]int{
			"small":  1_000,
			"medium": 50_000,
			"large":  500_000,
			"huge":   2_000_000,
		},
		SizeOrder: []string{"small", "medium", "large", "huge"},
		Commands:  []string{"dispatch", "workers"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the perflog binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("perflog"); err != nil {
		return fmt.Errorf("perflog binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateLog writes a synthetic manager log with the given number of rows into dir.
// Counters grow by random steps, and roughly one row in fifty carries a slow dispatch.
func generateLog(dir string, rows int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "performance"))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	_, _ = fmt.Fprintln(w, "# timestamp tasks_dispatched time_scheduling tasks_done workers_connected workers_idle workers_busy")

	rng := rand.New(rand.NewPCG(42, uint64(rows)))
	var ts, dispatched, scheduling, done, connected int64
	for range rows {
		ts += 1_000_000
		step := rng.Int64N(4)
		dispatched += step
		cost := step * (5 + rng.Int64N(10))
		if rng.IntN(50) == 0 {
			cost += 1_000 + rng.Int64N(5_000)
		}
		scheduling += cost
		done = min(dispatched, done+rng.Int64N(4))
		connected = max(1, connected+rng.Int64N(3)-1)
		busy := rng.Int64N(connected + 1)
		_, _ = fmt.Fprintf(w, "%d %d %d %d %d %d %d\n", ts, dispatched, scheduling, done, connected, connected-busy, busy)
	}
	return w.Flush()
}

// runBenchmarks executes all benchmark tests across configured log sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d log sizes, %v timeout, no-history: %d runs, history: %d runs\n",
		len(config.SizeOrder), config.Timeout, config.NoHistoryRuns, config.HistoryRuns)

	for _, size := range config.SizeOrder {
		logDir := filepath.Join(config.WorkDir, size)
		fmt.Printf("Generating %s log (%d rows)\n", size, config.LogSizes[size])
		if err := generateLog(logDir, config.LogSizes[size]); err != nil {
			fmt.Printf("Warning: failed to generate %s log: %v\n", size, err)
			continue
		}

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, size, logDir, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, size, logDir, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s log\n", command, size)

	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, logDir, command, historyBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No run history
	_, noHistoryAvg := runPhase("none", config.NoHistoryRuns, "No-history")

	// Phase 2: SQLite run history
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		LogSize:       size,
		Command:       command,
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a perflog command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, logDir, command, historyBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, logDir, "--history-backend", historyBackend, "--history-db-connect", filepath.Join(config.WorkDir, "history.db"), "--emoji", "no"}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("perflog", args...)
		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	completionPhrase := "Dispatch analysis completed in"
	if command == "workers" {
		completionPhrase = "Worker analysis completed in"
	}
	return strings.Contains(string(output), completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("perflog_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"log_size", "cmd", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.LogSize, result.Command, result.NoHistoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-history: %s, Cold: %s, Warm: %s\n", result.LogSize, result.NoHistoryTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
