package main

import "tabscribe/cmd"

func main() {
	cmd.Execute()
}
