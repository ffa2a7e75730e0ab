package main

import "code-reviewer/src/handler/cli"

func main() {
	cli.Run()
}
