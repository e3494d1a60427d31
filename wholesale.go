//go:build !cli
// +build !cli

package main

import (
	"wholesale.GO/server"
)

func main() {
	server.Run()
}
