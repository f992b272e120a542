package main

import "rumpus/cmd/cli"

func main() {
	cli.RunCLI()
}
