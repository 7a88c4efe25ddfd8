package main

import "github.com/pfrederiksen/nfl-transactions/internal/cli"

func main() {
	cli.Execute()
}
