package main

import (
	"fmt"
	"os"

	"github.com/friendorbit/orbit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "orbit:", err)
		os.Exit(1)
	}
}
