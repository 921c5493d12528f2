package main

import "github.com/tuannm99/tupledesc/cmd/tupledesc/cmd"

func main() {
	cmd.Execute()
}
