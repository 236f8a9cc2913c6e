// Package mapty holds build metadata for the mapty binary.
package mapty

// Version is the released version of mapty.
const Version = "0.3.0"
