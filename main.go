// main is the entry point for the qapulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/qapulse/cmd"
	"github.com/huangsam/qapulse/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
