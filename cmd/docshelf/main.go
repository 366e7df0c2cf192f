// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/docshelf/cmd/docshelf/cmd"
)

func main() {
	cmd.Execute()
}
