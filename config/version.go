package config

import "fmt"

const AppName = "nlpviz"

var (
	Version       = "0.1.0"
	CommitHash    = "n/a"
	BuildTime     = "n/a"
	VersionString = fmt.Sprintf("%s %s-%s (%s)", AppName, Version, CommitHash, BuildTime)
)
