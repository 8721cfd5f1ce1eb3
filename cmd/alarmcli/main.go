package main

import (
	"github.com/mikeyg123/pi-alarm/pkg/cli/sh"
	"github.com/mikeyg123/pi-alarm/pkg/env"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
