// The main package for the bnw-scrapie executable.
package main

import (
	"github.com/rbt2/bnw-scrapie/cmd"
)

func main() {
	cmd.Execute()
}
