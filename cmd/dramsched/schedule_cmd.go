package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sahil-g0/dramsched"
	"github.com/sahil-g0/dramsched/internal/config"
)

type requestFile struct {
	Requests []struct {
		BankGroup int `yaml:"bank_group"`
		Bank      int `yaml:"bank"`
		Row       int `yaml:"row"`
		Column    int `yaml:"column"`
	} `yaml:"requests"`
}

var timingConfigPath string

var scheduleCmd = &cobra.Command{
	Use:   "schedule [requests.yaml]",
	Short: "Build a batch from a YAML request list and print its command trace.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		reqs, err := loadRequestFile(args[0])
		if err != nil {
			log.Fatalf("Error reading request file: %v", err)
		}

		b := dramsched.MakeBuilder()
		if timingConfigPath != "" {
			f, err := config.Load(timingConfigPath)
			if err != nil {
				log.Fatalf("Error loading timing config: %v", err)
			}
			b = applyTimingFile(b, f)
		}

		sched := b.Build()
		for _, r := range reqs.Requests {
			if _, ok := sched.Submit(r.BankGroup, r.Bank, r.Row, r.Column); !ok {
				log.Fatalf("Error: request buffer full, refusing (bg=%d bank=%d row=%d col=%d)",
					r.BankGroup, r.Bank, r.Row, r.Column)
			}
		}

		sched.ScheduleStart()
		printTrace(sched)
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&timingConfigPath, "timing", "",
		"path to a YAML file overriding the default timing/capacity constants")
	rootCmd.AddCommand(scheduleCmd)
}

func loadRequestFile(path string) (requestFile, error) {
	var rf requestFile

	data, err := os.ReadFile(path)
	if err != nil {
		return rf, err
	}

	if err := yaml.Unmarshal(data, &rf); err != nil {
		return rf, err
	}

	return rf, nil
}

func applyTimingFile(b dramsched.Builder, f config.File) dramsched.Builder {
	if f.TRCD != 0 {
		b = b.WithTRCD(f.TRCD)
	}
	if f.TRP != 0 {
		b = b.WithTRP(f.TRP)
	}
	if f.TRAS != 0 {
		b = b.WithTRAS(f.TRAS)
	}
	if f.TRRDS != 0 {
		b = b.WithTRRDS(f.TRRDS)
	}
	if f.TRRDL != 0 {
		b = b.WithTRRDL(f.TRRDL)
	}
	if f.TCCDS != 0 {
		b = b.WithTCCDS(f.TCCDS)
	}
	if f.TCCDL != 0 {
		b = b.WithTCCDL(f.TCCDL)
	}
	if f.TRTP != 0 {
		b = b.WithTRTP(f.TRTP)
	}
	if f.TFAW != 0 {
		b = b.WithTFAW(f.TFAW)
	}
	if f.MaxRequests != 0 {
		b = b.WithMaxRequests(f.MaxRequests)
	}
	if f.MaxSRREntries != 0 {
		b = b.WithMaxSRREntries(f.MaxSRREntries)
	}
	if f.MaxSBREntries != 0 {
		b = b.WithMaxSBREntries(f.MaxSBREntries)
	}
	if f.MaxScheduleCycles != 0 {
		b = b.WithMaxScheduleCycles(f.MaxScheduleCycles)
	}

	return b
}

func printTrace(sched *dramsched.Scheduler) {
	fmt.Printf("batch %s: %d requests, %d SRR entries, %d SBR entries\n",
		sched.BatchID(), sched.NumRequests(), sched.NumSRREntries(), sched.NumSBREntries())

	for c := 0; c <= sched.MaxCycle(); c++ {
		slot := sched.Read(c)
		if slot.Cmd.String() == "DESELECT" {
			continue
		}

		fmt.Printf("cycle %4d: %-4s bg=%d bank=%d row=%d col=%d req=%d\n",
			slot.Cycle, slot.Cmd, slot.BankGroup, slot.Bank, slot.Row, slot.Column, slot.RequestID)
	}
}
