// Package cmd defines the command line flags shared by this repository's
// binaries. Grounded on the teacher's shared/cmd/flags.go, trimmed to the
// flags cmd/beacon-node registers — no tracing, no altsrc config-file
// loading. P2PTCPPort is registered but not read, since the node runs no
// p2p host.
package cmd

import (
	"github.com/urfave/cli/v2"
)

var (
	// VerbosityFlag defines the logrus configuration.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (trace, debug, info=default, warn, error, fatal, panic)",
		Value: "info",
	}
	// LogFormat specifies the log output format.
	LogFormat = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Specify log formatting. Supports: text, json.",
		Value: "text",
	}
	// GenesisStateFlag points at an SSZ-encoded genesis BeaconState to seed
	// a first-ever boot from.
	GenesisStateFlag = &cli.StringFlag{
		Name:  "genesis-state",
		Usage: "Path to an SSZ-encoded genesis state file, required on first boot",
	}
	// ValidatorAPIAddrFlag is the listen address for api/validatorapi's
	// REST server.
	ValidatorAPIAddrFlag = &cli.StringFlag{
		Name:  "validator-api-addr",
		Usage: "Listen address for the validator REST API",
		Value: "127.0.0.1:3500",
	}
	// P2PTCPPort defines the port to be used by libp2p.
	P2PTCPPort = &cli.IntFlag{
		Name:  "p2p-tcp-port",
		Usage: "The port used by libp2p",
		Value: 13000,
	}
	// MonitoringAddrFlag is the listen address prometheus/client_golang's
	// handler is served from.
	MonitoringAddrFlag = &cli.StringFlag{
		Name:  "monitoring-addr",
		Usage: "Listen address for the /metrics Prometheus endpoint",
		Value: "127.0.0.1:8080",
	}
)
