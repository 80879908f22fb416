package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sahil-g0/dramsched"
	"github.com/sahil-g0/dramsched/httpapi"
	"github.com/sahil-g0/dramsched/internal/config"
	"github.com/sahil-g0/dramsched/internal/dramtrace"
)

var (
	envPath   string
	tracePath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP readout surface for a fresh scheduler instance.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		env := config.LoadEnv(envPath)

		b := dramsched.MakeBuilder()
		if tracePath != "" {
			w := dramtrace.NewSQLiteWriter(tracePath)
			w.Init()
			b = b.WithTraceWriter(w)
		} else if env.TracePath != "" {
			w := dramtrace.NewSQLiteWriter(env.TracePath)
			w.Init()
			b = b.WithTraceWriter(w)
		}

		sched := b.Build()

		srv := httpapi.New(sched).WithPortNumber(env.HTTPPort)
		addr, err := srv.StartServer()
		if err != nil {
			log.Fatalf("Error starting HTTP server: %v", err)
		}

		fmt.Printf("dramsched serving on http://%s\n", addr)
		select {}
	},
}

func init() {
	serveCmd.Flags().StringVar(&envPath, "env", ".env", "path to a .env file with process overrides")
	serveCmd.Flags().StringVar(&tracePath, "trace", "", "SQLite database path (a .sqlite3 suffix is appended) to mirror every emitted command into")
	rootCmd.AddCommand(serveCmd)
}
