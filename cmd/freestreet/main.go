package main

import "github.com/mcoot/freestreet/internal/cli"

func main() {
	cli.Execute()
}
