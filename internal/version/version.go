package version

// Set at build time with -ldflags "-X Buckling/internal/version.Version=1.2.0"
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)
