package main

import (
	"github.com/axb35/ecfand/cmd"
)

func main() {
	cmd.Execute()
}
