package main

import (
	"github.com/NVIDIA/policygen/pkg/cli"
)

func main() {
	cli.Execute()
}
