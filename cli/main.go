package main

import (
	"ocm.software/datapackage/cli/cmd"
)

func main() {
	cmd.Execute()
}
