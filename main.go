package main

import "castbrowse/cmd"

func main() {
	cmd.Execute()
}
