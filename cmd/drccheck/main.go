package main

import "github.com/OpenTraceLab/pcbdrc/cmd/drccheck/cmd"

func main() {
	cmd.Execute()
}
