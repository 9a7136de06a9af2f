package main

import "github.com/mcoot/nexus/internal/cli"

func main() {
	cli.Execute()
}
