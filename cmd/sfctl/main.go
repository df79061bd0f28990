package main

import (
	"os"

	"snowflake-admin/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
