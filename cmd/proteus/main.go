package main

import "github.com/zoobzio/proteus/cmd/proteus/cmd"

func main() {
	cmd.Execute()
}
