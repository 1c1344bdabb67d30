package main

import "github.com/kozaktomas/facereg/cmd"

func main() {
	cmd.Execute()
}
