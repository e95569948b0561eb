package main

import "github.com/chrissnell/reservoirops/internal/cli"

func main() {
	cli.Execute()
}
