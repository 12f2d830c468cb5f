package main

import "github.com/ihavespoons/taskpulse/internal/cli"

// These variables are set by GoReleaser at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	cli.Execute()
}
