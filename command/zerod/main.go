// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/zerochain/zerod/configuration"
	"github.com/zerochain/zerod/ledger"
	"github.com/zerochain/zerod/storage"
	"github.com/zerochain/zerod/util"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "miner-address", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'm'},
	}

	program, options, _, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--version] [--miner-address=ADDRESS] --config-file=FILE", program)
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: exactly one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	if !util.EnsureFileExists(configurationFile) {
		exitwithstatus.Message("%s: configuration file: %q does not exist", program, configurationFile)
	}
	theConfiguration, err := configuration.GetConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// command line miner address overrides the configuration
	if len(options["miner-address"]) > 0 {
		theConfiguration.MinerAddress = options["miner-address"][len(options["miner-address"])-1]
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// general info
	log.Infof("database: %q  backend: %s", theConfiguration.DatabasePath(), theConfiguration.Database.Backend)
	log.Infof("peer listen: %v", theConfiguration.PeerListen)
	log.Infof("rpc listen: %v", theConfiguration.RPCListen)
	if "" != theConfiguration.MinerAddress {
		log.Infof("miner address: %s", theConfiguration.MinerAddress)
	}

	// an unreadable store at startup is fatal
	store, err := storage.Open(logger.New("storage"), theConfiguration.Database.Backend, theConfiguration.DatabasePath())
	if nil != err {
		log.Criticalf("storage open error: %s", err)
		exitwithstatus.Message("%s: storage open error: %s", program, err)
	}
	defer store.Close()

	chain, err := ledger.New(logger.New("ledger"), store, theConfiguration.RingSize)
	if nil != err {
		log.Criticalf("ledger open error: %s", err)
		exitwithstatus.Message("%s: ledger open error: %s", program, err)
	}

	if chain.IsEmpty() {
		log.Info("chain is empty, waiting for genesis")
	} else {
		tip, err := chain.TipDigest()
		if nil != err {
			log.Criticalf("tip digest error: %s", err)
			exitwithstatus.Message("%s: tip digest error: %s", program, err)
		}
		log.Infof("chain height: %d  tip: %v", chain.Height(), tip)
	}

	// the peer and rpc protocol handlers attach here; the node is
	// still useful headless for local chain inspection and recovery

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	log.Infof("received signal: %v", <-ch)

	// shutdown…
	log.Info("shutting down…")
	log.Flush()
}
