package version

// Build holds the build identifier, injected via -ldflags. Default "dev".
var Build = "dev"
