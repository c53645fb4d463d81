package main

import "github.com/ryukoposting/ustack/cmd"

func main() {
	cmd.Execute()
}
