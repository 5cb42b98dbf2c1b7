package main

import "github.com/killallgit/backscroll/cmd"

func main() {
	cmd.Execute()
}
