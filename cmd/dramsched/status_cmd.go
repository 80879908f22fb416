package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print build info and host process stats.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		fmt.Printf("dramsched (%s)\n", runtime.Version())

		proc, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			log.Fatalf("Error inspecting host process: %v", err)
		}

		cpuPercent, err := proc.CPUPercent()
		if err != nil {
			log.Fatalf("Error reading CPU stats: %v", err)
		}

		memInfo, err := proc.MemoryInfo()
		if err != nil {
			log.Fatalf("Error reading memory stats: %v", err)
		}

		fmt.Printf("cpu: %.2f%%  rss: %d bytes\n", cpuPercent, memInfo.RSS)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
