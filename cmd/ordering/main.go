package main

import "ordering/cli"

func main() {
	cli.Execute()
}
