package main

import (
	"os"

	"github.com/abhisek/worksheetz/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
