package main

import (
	"github.com/sentilo/sentilo-samples/pkg/cli"
)

func main() {
	cli.Execute()
}
