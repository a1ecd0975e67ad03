package main

import "impulsa-web/cmd"

func main() {
	cmd.Execute()
}
