package main

import "github.com/jatakam/dashatree/cmd"

func main() {
	cmd.Execute()
}
