// main is the entry point for the gauge CLI.
package main

import (
	"github.com/onchainlab/gauge/cmd"
	"github.com/onchainlab/gauge/internal/contract"
	"github.com/onchainlab/gauge/internal/history"
)

func main() {
	cmd.SetHistoryManager(history.Manager)
	err := cmd.Execute()

	// Deferred work runs before any fatal exit
	history.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
