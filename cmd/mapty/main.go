// Package main provides the mapty CLI.
package main

import "github.com/mesh-intelligence/mapty/internal/cli"

func main() {
	cli.Execute()
}
