package main

import "github.com/slncross/slncross/cmd"

func main() {
	cmd.Execute()
}
