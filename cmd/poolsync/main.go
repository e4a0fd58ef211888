// Package main provides the entry point for the poolsync CLI tool.
package main

import "github.com/swimto/poolsync/cmd/poolsync/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
