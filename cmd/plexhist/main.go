package main

import "github.com/tessro/plexhist/internal/cli"

func main() {
	cli.Execute()
}
