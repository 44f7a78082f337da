// Package main is the sysline entry point: a one-shot status line tool
// that probes CPU, memory, swap and disk telemetry and prints either a
// token-template line or a plain per-field dump.
package main

import "os"

// Version is the current sysline version. Override at build time with:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run())
}
