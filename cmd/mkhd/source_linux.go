//go:build linux

package main

import (
	"log"

	"github.com/Danondso/mkhd/internal/daemonconfig"
	"github.com/Danondso/mkhd/internal/source"
)

func newEventSource(dcfg *daemonconfig.Config, logger *log.Logger) (source.EventSource, error) {
	return source.NewEvdevSource(dcfg.Device, func() string { return "" }, logger)
}
