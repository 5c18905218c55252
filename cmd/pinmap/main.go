package main

import "github.com/schodet/pinmap/cmd/pinmap/cmd"

func main() {
	cmd.Execute()
}
