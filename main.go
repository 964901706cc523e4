package main

import "gic-cinemas/cmd"

const appName = "gic"

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.Execute(cmd.BuildInfo{Name: appName, Version: version, Commit: commit})
}
