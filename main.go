package main

import "rta-backend/commands"

func main() {
	commands.Execute()
}
