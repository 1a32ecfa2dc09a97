package main

import (
	"github.com/andrescamacho/chaincommand-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
