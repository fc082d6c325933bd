// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/evrynet/staking/api"
	"github.com/evrynet/staking/log"
	"github.com/evrynet/staking/metrics"
	"github.com/evrynet/staking/node"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakingd",
		Usage:     "Validator staking ledger node",
		Copyright: "2025 Evrynet",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiBacktraceLimitFlag,
			apiEventsLimitFlag,
			apiAllowAdminFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			persistFlag,
			candidateSlotsFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "dump-genesis",
				Usage: "print the genesis document in use",
				Flags: []cli.Flag{genesisFlag, candidateSlotsFlag},
				Action: func(ctx *cli.Context) error {
					doc, err := loadGenesis(ctx)
					if err != nil {
						return err
					}
					data, err := doc.Encode()
					if err != nil {
						return err
					}
					_, err = os.Stdout.Write(data)
					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitCtx := handleExitSignal()
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	doc, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	id, err := genesisID(doc)
	if err != nil {
		return err
	}
	mainDB, eventDB, instanceDir, err := openDatabases(ctx, id)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing event database..."); eventDB.Close() }()

	n, err := node.New(mainDB, eventDB, doc, node.Options{
		BlockInterval: time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second,
	})
	if err != nil {
		return err
	}

	opts := api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		BacktraceLimit: ctx.Uint64(apiBacktraceLimitFlag.Name),
		EventsLimit:    ctx.Uint64(apiEventsLimitFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	}
	if ctx.Bool(apiAllowAdminFlag.Name) {
		opts.LogLevel = logLevel
	}
	handler, closeSubs := api.New(n, opts)
	defer func() { log.Info("closing subscriptions..."); closeSubs() }()

	group, groupCtx := errgroup.WithContext(exitCtx)

	apiURL, serveAPI, err := startServer(groupCtx, "API", ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	group.Go(serveAPI)

	metricsURL := "Disabled"
	if ctx.Bool(enableMetricsFlag.Name) {
		var serveMetrics func() error
		metricsURL, serveMetrics, err = startServer(groupCtx, "metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler())
		if err != nil {
			return err
		}
		group.Go(serveMetrics)
	}

	group.Go(func() error {
		return n.Run(groupCtx)
	})

	head := n.Head()
	fmt.Printf(`Starting %v
    Network      [ %v ]
    Staking      [ %v ]
    Best block   [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
`,
		"stakingd "+fullVersion(),
		id.AbbrevString(),
		n.StakingAddress(),
		head.Number,
		instanceDir,
		apiURL,
		metricsURL)

	return group.Wait()
}
