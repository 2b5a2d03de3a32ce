// main is the entry point of the steptrack CLI.
package main

import (
	"github.com/huangsam/steptrack/cmd"
	"github.com/huangsam/steptrack/internal/contract"
	"github.com/huangsam/steptrack/internal/journal"
)

func main() {
	err := run()
	if err != nil {
		contract.LogFatal("Cannot run steptrack", err)
	}
}

// run executes the root command and releases the stores before main exits.
func run() error {
	defer journal.CloseStores()
	return cmd.Execute()
}
