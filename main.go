package main

import "github.com/picobot/picobot/cmd"

func main() {
	cmd.Execute()
}
