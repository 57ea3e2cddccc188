package main

import (
	"github.com/flagvault/flagvault/internal/cli"
)

func main() {
	cli.Execute()
}
