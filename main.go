package main

import "github.com/phantomcv/phantom/cmd"

func main() {
	cmd.Execute()
}
