package version

// Set via -ldflags at build time.
var (
	AppName   = "Melobot"
	Version   = "dev"
	BuildDate = "unknown"
)
