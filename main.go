package main

import "github.com/frost-works/permafrost/cmd"

func main() {
	cmd.Execute()
}
