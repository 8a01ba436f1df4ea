package main

import "github.com/clipsmith/shortclips/internal/cli"

func main() {
	cli.Main()
}
