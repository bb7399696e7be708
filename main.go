// main is the entry point for the perflog CLI.
package main

import (
	"github.com/huangsam/perflog/cmd"
	"github.com/huangsam/perflog/internal/contract"
	"github.com/huangsam/perflog/internal/runstore"
)

func main() {
	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	runstore.CloseStore()
	contract.SyncLogger()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
