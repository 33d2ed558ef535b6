package main

import "github.com/shawkym/moragents-tui/cmd"

func main() {
	cmd.Execute()
}
