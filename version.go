package screening

// Version is the engine version, overridden at build time via
// -ldflags "-X github.com/amparo-health/screening.Version=...".
var Version = "0.3.0-dev"
