package main

import "github.com/pacerhq/pacer/cmd"

func main() {
	cmd.Execute()
}
