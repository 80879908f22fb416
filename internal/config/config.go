// Package config loads the scheduler's timing/capacity configuration from
// a YAML file and process-level overrides from a .env file, mirroring the
// teacher's split between a checked-in Builder default and operator-tuned
// environment overrides.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sahil-g0/dramsched/internal/timing"
)

// File is the YAML-serialisable shape of a timing/capacity override file.
// Any field left at its zero value is not applied by ApplyTo.
type File struct {
	TRCD  int `yaml:"t_rcd"`
	TRP   int `yaml:"t_rp"`
	TRAS  int `yaml:"t_ras"`
	TRRDS int `yaml:"t_rrd_s"`
	TRRDL int `yaml:"t_rrd_l"`
	TCCDS int `yaml:"t_ccd_s"`
	TCCDL int `yaml:"t_ccd_l"`
	TRTP  int `yaml:"t_rtp"`
	TFAW  int `yaml:"t_faw"`

	MaxRequests       int `yaml:"max_requests"`
	MaxSRREntries     int `yaml:"max_srr_entries"`
	MaxSBREntries     int `yaml:"max_sbr_entries"`
	MaxScheduleCycles int `yaml:"max_schedule_cycles"`
}

// Load parses a YAML file at path into a File.
func Load(path string) (File, error) {
	var f File

	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, err
	}

	return f, nil
}

// ApplyTo overlays the non-zero fields of f onto cst and returns the result.
func (f File) ApplyTo(cst timing.Constants) timing.Constants {
	if f.TRCD != 0 {
		cst.TRCD = f.TRCD
	}
	if f.TRP != 0 {
		cst.TRP = f.TRP
	}
	if f.TRAS != 0 {
		cst.TRAS = f.TRAS
	}
	if f.TRRDS != 0 {
		cst.TRRDS = f.TRRDS
	}
	if f.TRRDL != 0 {
		cst.TRRDL = f.TRRDL
	}
	if f.TCCDS != 0 {
		cst.TCCDS = f.TCCDS
	}
	if f.TCCDL != 0 {
		cst.TCCDL = f.TCCDL
	}
	if f.TRTP != 0 {
		cst.TRTP = f.TRTP
	}
	if f.TFAW != 0 {
		cst.TFAW = f.TFAW
	}
	if f.MaxRequests != 0 {
		cst.MaxRequests = f.MaxRequests
	}
	if f.MaxSRREntries != 0 {
		cst.MaxSRREntries = f.MaxSRREntries
	}
	if f.MaxSBREntries != 0 {
		cst.MaxSBREntries = f.MaxSBREntries
	}
	if f.MaxScheduleCycles != 0 {
		cst.MaxScheduleCycles = f.MaxScheduleCycles
	}

	return cst
}

// Env is the set of process-level overrides an operator supplies through a
// .env file instead of the checked-in YAML, the way a deployed service
// tunes its listen port or log level without touching source-controlled
// config.
type Env struct {
	HTTPPort  int
	LogLevel  string
	TracePath string
}

// LoadEnv loads path with godotenv (if it exists) and reads the resulting
// environment into an Env, falling back to defaults for anything unset.
func LoadEnv(path string) Env {
	_ = godotenv.Load(path)

	env := Env{
		HTTPPort: 8080,
		LogLevel: "info",
	}

	if v := os.Getenv("DRAMSCHED_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			env.HTTPPort = n
		}
	}

	if v := os.Getenv("DRAMSCHED_LOG_LEVEL"); v != "" {
		env.LogLevel = v
	}

	if v := os.Getenv("DRAMSCHED_TRACE_PATH"); v != "" {
		env.TracePath = v
	}

	return env
}
