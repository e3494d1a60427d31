//go:build cli
// +build cli

package main

import (
	_ "wholesale.GO/custom"

	"wholesale.GO/cmd"
	"wholesale.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
