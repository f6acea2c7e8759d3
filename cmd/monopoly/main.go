package main

import (
	"github.com/BAYRYO/monopoly-rgpd/internal/cli"
)

func main() {
	cli.Execute()
}
