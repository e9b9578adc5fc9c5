// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package main

import (
	"os"

	"github.com/milantonight/StaseraMilano/internal/commands"
)

func main() {
	commands.HashPassword(os.Args[1:])
}
