package main

import "github.com/pfrederiksen/gigcal/internal/cli"

func main() {
	cli.Execute()
}
