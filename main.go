package main

import "squiggles/cmd"

func main() {
	cmd.Execute()
}
