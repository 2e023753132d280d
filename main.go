package main

import "github.com/structarch/tna/cmd"

func main() {
	cmd.Execute()
}
