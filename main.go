// Package main is the entry point for the mpvbridge command.
package main

import (
	"github.com/mpvbridge/mpvbridge/cmd"
	"github.com/mpvbridge/mpvbridge/config"
	"github.com/mpvbridge/mpvbridge/internal/sweep"
	"github.com/mpvbridge/mpvbridge/log"
	"github.com/mpvbridge/mpvbridge/where"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Runs before any mpv is spawned so a socket being bound is never mistaken for a dead one.
	sweep.CollectGarbage(where.Logs(), where.Sockets())

	cmd.Execute()
}
