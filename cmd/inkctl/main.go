// Command inkctl administers an inkwell deployment.
package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"

	"inkwell/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
