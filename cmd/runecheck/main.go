package main

import "github.com/danmuck/runecheck/internal/cli"

func main() {
	cli.Execute()
}
