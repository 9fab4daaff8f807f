package main

import "github.com/stableex/sx.dmdvaults/internal/cli"

func main() {
	cli.Execute()
}
