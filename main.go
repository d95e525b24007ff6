package main

import "github.com/theirongolddev/moneymike/cmd"

func main() {
	cmd.Execute()
}
