package main

import "github.com/nicdemeagbeve-afk/synapse/cmd"

func main() {
	cmd.Execute()
}
