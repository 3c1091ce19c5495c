package main

import "catalog-cli/cmd"

func main() {
	cmd.Execute()
}
