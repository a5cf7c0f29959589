package main

import (
	"github.com/andrescamacho/geode-planner/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
