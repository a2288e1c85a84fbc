// Command voicepack manages SILK voice-pack containers.
package main

import (
	"fmt"
	"os"

	"github.com/ytget/voicepack/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
