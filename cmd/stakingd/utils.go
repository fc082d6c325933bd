// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/evrynet/staking/eventdb"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/genesis"
	"github.com/evrynet/staking/log"
	"github.com/evrynet/staking/lvldb"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	level := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	logLevel := new(slog.LevelVar)
	logLevel.Set(level)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, logLevel)
	} else {
		useColor := (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, logLevel, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.evrynet.staking")
		}
		return filepath.Join(home, ".org.evrynet.staking")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// loadGenesis reads the genesis file, or builds the dev network one.
func loadGenesis(ctx *cli.Context) (*genesis.Document, error) {
	var (
		doc *genesis.Document
		err error
	)
	if path := ctx.String(genesisFlag.Name); path != "" {
		if doc, err = genesis.Load(path); err != nil {
			return nil, errors.Wrapf(err, "load genesis file [%v]", path)
		}
	} else {
		doc = genesis.NewDevnet()
	}
	if ctx.IsSet(candidateSlotsFlag.Name) {
		doc.CandidateSlots = ctx.Uint64(candidateSlotsFlag.Name)
		if err := doc.Validate(); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// genesisID identifies a network by the content of its genesis.
func genesisID(doc *genesis.Document) (evr.Bytes32, error) {
	data, err := doc.Encode()
	if err != nil {
		return evr.Bytes32{}, err
	}
	return evr.Blake2b(data), nil
}

func makeInstanceDir(ctx *cli.Context, id evr.Bytes32) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openDatabases(ctx *cli.Context, id evr.Bytes32) (*lvldb.LevelDB, *eventdb.EventDB, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		db, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", err
		}
		edb, err := eventdb.NewMem()
		if err != nil {
			db.Close()
			return nil, nil, "", err
		}
		return db, edb, "Memory", nil
	}

	instanceDir, err := makeInstanceDir(ctx, id)
	if err != nil {
		return nil, nil, "", err
	}
	db, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, nil, "", errors.Wrap(err, "open main database")
	}
	edb, err := eventdb.New(filepath.Join(instanceDir, "events.db"))
	if err != nil {
		db.Close()
		return nil, nil, "", errors.Wrap(err, "open event database")
	}
	return db, edb, instanceDir, nil
}

// startServer serves handler on addr until ctx is done.
func startServer(ctx context.Context, name, addr string, handler http.Handler) (string, func() error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	serve := func() error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
	return "http://" + listener.Addr().String() + "/", serve, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
