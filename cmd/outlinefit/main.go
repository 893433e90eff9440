// Command outlinefit is the headless build of outline-fit: placement
// rendering, sample product creation and config management without the
// desktop window.
package main

import (
	"os"

	"outline-fit/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand(nil)))
}
