package main

import "github.com/mvp-joe/phpscope/internal/cli"

func main() {
	cli.Execute()
}
