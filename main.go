package main

import "github.com/SunnySoftwareTech/Drafty/cmd"

func main() {
	cmd.Execute()
}
