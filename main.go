package main

import "github.com/theirongolddev/iceplan/cmd"

func main() {
	cmd.Execute()
}
