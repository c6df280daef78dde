package main

import "github.com/encodeous/nlsrcore/cmd"

func main() {
	cmd.Execute()
}
