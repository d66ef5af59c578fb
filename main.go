package main

import "rackhost/cmd"

func main() {
	cmd.Execute()
}
