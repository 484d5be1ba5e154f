package main

import "betonit/cmd/player/command"

func main() {
	command.Execute()
}
