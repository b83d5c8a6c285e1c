package main

import "github.com/selimozcann/phishaid/cmd"

func main() {
	cmd.Execute()
}
