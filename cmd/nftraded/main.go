package main

import (
	"github.com/genecyber/goNFTraded/internal/cli"
)

func main() {
	cli.Execute()
}
