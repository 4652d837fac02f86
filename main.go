package main

import "agridash/cmd"

func main() {
	cmd.Execute()
}
