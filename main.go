package main

import (
	"os"

	"collection-merge/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
