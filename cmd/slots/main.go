// Command slots runs the interactive demos and replay scripts of the slots
// state container.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/slots/cmd/slots/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
