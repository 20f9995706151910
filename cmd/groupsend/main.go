package main

import (
	"os"

	"github.com/rpdg/groupsend/internal/cli"
)

func main() {
	os.Exit(cli.Main(cli.DefaultEnv(), os.Args[1:]))
}
