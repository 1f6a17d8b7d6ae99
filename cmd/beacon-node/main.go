// Command beacon-node runs spec.md's consensus-node core: the block/state
// store, fork choice, sync orchestrator, operation pools, validator REST
// API and (when validator keys are supplied) the validator duties
// engine, all wired into a single process. Grounded on the teacher's
// cmd/beacon-chain/main.go + beacon-chain/node package split and the
// urfave/cli/v2 app shape of the teacher's slasher/main.go.
package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	sharedcmd "github.com/prylabs-zero/beacon-core/shared/cmd"
	"github.com/prylabs-zero/beacon-core/shared/version"
)

var log = logrus.WithField("prefix", "main")

var appFlags = []cli.Flag{
	sharedcmd.VerbosityFlag,
	sharedcmd.LogFormat,
	sharedcmd.GenesisStateFlag,
	sharedcmd.ValidatorAPIAddrFlag,
	sharedcmd.P2PTCPPort,
	sharedcmd.MonitoringAddrFlag,
	validatorKeysFlag,
	graffitiFlag,
}

func startNode(cliCtx *cli.Context) error {
	verbosity := cliCtx.String(sharedcmd.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	beacon, err := New(cliCtx)
	if err != nil {
		return err
	}
	beacon.Start()
	waitForInterrupt(beacon)
	return nil
}

func main() {
	app := cli.App{}
	app.Name = "beacon-node"
	app.Usage = "runs a phase-0 beacon chain consensus node"
	app.Version = version.GetVersion()
	app.Flags = appFlags
	app.Action = startNode
	app.Before = func(ctx *cli.Context) error {
		format := ctx.String(sharedcmd.LogFormat.Name)
		switch format {
		case "text":
			formatter := new(logrus.TextFormatter)
			formatter.TimestampFormat = "2006-01-02 15:04:05"
			formatter.FullTimestamp = true
			logrus.SetFormatter(formatter)
		case "json":
			logrus.SetFormatter(&logrus.JSONFormatter{})
		default:
			return errUnknownLogFormat(format)
		}
		runtime.GOMAXPROCS(runtime.NumCPU())
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func errUnknownLogFormat(format string) error {
	return errors.Errorf("unknown log format %q", format)
}

// waitForInterrupt blocks until SIGINT/SIGTERM, then stops every
// registered service.
func waitForInterrupt(beacon *BeaconNode) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	<-sigc
	log.Info("got interrupt, shutting down")
	beacon.Close()
}
