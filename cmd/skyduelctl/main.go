package main

import (
	"github.com/mcoot/skyduel-server/internal/cli"
)

func main() {
	cli.Execute()
}
