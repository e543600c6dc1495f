package main

import "ensoniqfs/cmd"

func main() {
	cmd.Execute()
}
