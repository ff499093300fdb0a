// Package version defines the version of pomerge.
package version

// Version of pomerge.
const Version = "0.1.0"
