package main

import "github.com/ngld/mkmf/cmd"

func main() {
	cmd.Execute()
}
