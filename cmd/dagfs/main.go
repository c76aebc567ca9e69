package main

import "github.com/dagfs/dagfs/cmd/dagfs/cmd"

func main() {
	cmd.Execute()
}
