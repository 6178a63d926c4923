package main

import "pkgresolve/internal/cli"

func main() {
	cli.Execute()
}
