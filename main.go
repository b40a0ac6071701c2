package main

import (
	"os"

	"github.com/hyunwoo-dev/paperlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
