package main

import "github.com/tristendillon/capnp-stubgen/cmd"

func main() {
	cmd.Execute()
}
