package main

import "ghero-arcade/cmd"

func main() {
	cmd.Execute()
}
