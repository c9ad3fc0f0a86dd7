package main

import (
	"os"

	"github.com/stratadb/strata/schematool"
)

func main() {
	schematool.Main(os.Args)
}
