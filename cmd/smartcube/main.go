// smartcube - facelet codec, live dashboard and bridge for Bluetooth smart cubes.
package main

import (
	"github.com/SeamusWaldron/smartcube/internal/cli"
)

func main() {
	cli.Execute()
}
