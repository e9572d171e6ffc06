package main

import (
	"fmt"
	"os"

	cmd "github.com/skycast-ai/skycast/cmd/skycast"
)

func main() {
	rootCmd := cmd.GetRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
