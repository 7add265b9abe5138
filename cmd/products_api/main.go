package main

import "github.com/Skotchmaster/products_api/cmd/products_api/commands"

func main() {
	commands.Execute()
}
