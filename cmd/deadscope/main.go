package main

import "deadscope/internal/cli"

func main() {
	cli.Execute()
}
