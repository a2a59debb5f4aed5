package main

import (
	"os"

	"github.com/bozylik/sa-es-map/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
