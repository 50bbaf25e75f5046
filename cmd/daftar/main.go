package main

import "daftar/internal/cli"

func main() {
	cli.Execute()
}
