package main

import "github.com/obsgate/obsgate/internal/cli"

func main() {
	cli.Execute()
}
