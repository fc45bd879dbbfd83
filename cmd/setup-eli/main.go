package main

import "github.com/alis-is/setup-eli/cmd/setup-eli/cmd"

func main() {
	cmd.Execute()
}
