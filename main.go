package main

import (
	"os"

	"webdriver_wrapper/presentation/cli"
)

func main() {
	os.Exit(cli.Execute())
}
