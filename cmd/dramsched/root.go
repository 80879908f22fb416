// Package main provides the dramsched command-line interface: schedule
// one batch from a YAML request file, serve the HTTP readout surface, or
// print build/process status. Grounded on v5/akita/cmd/root.go's
// cobra.Command tree and its log.Fatalf error style.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dramsched",
	Short: "dramsched runs the batch DRAM command scheduler.",
	Long: `dramsched is a batch-oriented DRAM command scheduler. It groups ` +
		`submitted read requests into Same-Row and Same-Bank chains and ` +
		`emits a cycle-accurate ACT/PRE/RD command trace.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
