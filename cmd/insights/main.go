// Command insights generates synthetic assessment data and runs the
// miss-graph, centrality, correlation and feedback analyses over it.
//
// Usage:
//
//	insights generate --out-dir data
//	insights graph --granularity domain --scale
//	insights correlate --cross --format csv
//	insights feedback --student S01 --attempt 3
//	insights sweep --seeds 50
//
// Every command reads the profile given by --config (YAML or JSON) and the
// INSIGHTS_* environment; see package config.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
