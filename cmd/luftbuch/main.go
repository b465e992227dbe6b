// Command luftbuch is the local-first ventilation protocol keeper.
package main

import "github.com/luftbuch/luftbuch/internal/cli"

func main() {
	cli.Execute()
}
