package main

import (
	cmd "github.com/rmartinho/es-outfitter/cmd/outfitter"
)

func main() {
	cmd.Execute()
}
