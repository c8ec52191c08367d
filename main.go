package main

import (
	"sxtool/cli"
)

func main() {
	cli.Start()
}
