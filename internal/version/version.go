// Package version holds build metadata injected via -ldflags.
package version

var (
	AppName   = "tarakania-rpg"
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = ""
	GoVersion = ""
)
