// Package main provides the memdbctl CLI.
package main

import "github.com/mesh-intelligence/memdb/internal/cli"

func main() {
	cli.Execute()
}
