package main

import "github.com/eslsoft/lingvo/cmd"

func main() {
	cmd.Execute()
}
