package main

import (
	"os"

	"github.com/haneol/mundap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
