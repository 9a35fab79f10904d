package main

import "github.com/postkit/postkit/cmd"

func main() {
	cmd.Execute()
}
