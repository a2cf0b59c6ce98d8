// Package checklymcp provides the version information for checkly-mcp.
package checklymcp

// Version is the current version of checkly-mcp.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
