package main

import "github.com/nfrund/miniapp/cmd/miniapp-cli/cmd"

func main() {
	cmd.Execute()
}
