// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"reflect"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/zerochain/zerod/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "zerod-dumpdb"
	app.Usage = "inspect the raw pools of a zerod database"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "file, f",
			Value: "",
			Usage: "*database directory `PATH`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list",
			Usage:  "show all pool tags",
			Action: runList,
		},
		{
			Name:      "dump",
			Usage:     "hex dump records from one pool",
			ArgsUsage: "tag [key-prefix-hex]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, c",
					Value: 10,
					Usage: " maximum records to fetch `N`",
				},
				cli.BoolFlag{
					Name:  "early, e",
					Usage: " stop once keys leave the prefix",
				},
			},
			Action: runDump,
		},
	}

	if err := app.Run(os.Args); nil != err {
		fmt.Fprintf(os.Stderr, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// show every pool tag and its field name
func runList(c *cli.Context) error {
	poolType := reflect.TypeOf(storage.Pools{})

	fmt.Printf(" tags:\n")
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)
		fmt.Printf("       %s → %s\n", fieldInfo.Tag.Get("prefix"), fieldInfo.Name)
	}
	return nil
}

// hex dump records from the pool selected by tag
func runDump(c *cli.Context) error {

	fileName := c.GlobalString("file")
	if "" == fileName {
		return cli.NewExitError("missing --file argument", 1)
	}
	if 0 == c.NArg() {
		return cli.NewExitError("missing tag argument", 1)
	}
	tag := c.Args().Get(0)

	prefix := []byte(nil)
	if c.NArg() > 1 {
		var err error
		prefix, err = hex.DecodeString(c.Args().Get(1))
		if nil != err {
			return cli.NewExitError(fmt.Sprintf("convert prefix error: %s", err), 1)
		}
	}

	count := c.Int("count")
	if count < 1 {
		return cli.NewExitError(fmt.Sprintf("invalid count: %d", count), 1)
	}

	logging := logger.Configuration{
		Directory: ".",
		File:      "zerod-dumpdb.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		return cli.NewExitError(fmt.Sprintf("logger setup failed with error: %s", err), 1)
	}
	defer logger.Finalise()

	store, err := storage.Open(logger.New("storage"), storage.LevelDBBackend, fileName)
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("storage open error: %s", err), 1)
	}
	defer store.Close()

	// scan the pool fields to locate the tag
	poolType := reflect.TypeOf(store.Pool)
	poolValue := reflect.ValueOf(store.Pool)

	var p *storage.PoolHandle
tag_scan:
	for i := 0; i < poolType.NumField(); i += 1 {
		if tag == poolType.Field(i).Tag.Get("prefix") {
			p = poolValue.Field(i).Interface().(*storage.PoolHandle)
			break tag_scan
		}
	}
	if nil == p {
		return cli.NewExitError(fmt.Sprintf("no pool corresponding to: %q", tag), 1)
	}

	cursor := p.NewFetchCursor()
	if len(prefix) > 0 {
		cursor.Seek(prefix)
	}

	data, err := cursor.Fetch(count)
	if nil != err {
		return cli.NewExitError(fmt.Sprintf("fetch error: %s", err), 1)
	}

	earlyStop := c.Bool("early")
	l := len(prefix)

print_loop:
	for i, e := range data {
		if earlyStop && len(e.Key) >= l && !bytes.Equal(prefix, e.Key[:l]) {
			fmt.Printf("*** early stop\n")
			break print_loop
		}
		fmt.Printf("%d: Key: %x\n", i, e.Key)
		hexDump(fmt.Sprintf("%d: Val: ", i), e.Value)
	}
	return nil
}

// dump hex data on stdout
func hexDump(prefix string, data []byte) {
	address := 0
	const bytesPerLine = 32
	for i := 0; i < len(data); i += bytesPerLine {
		fmt.Printf("%s%04x  ", prefix, address)
		address += bytesPerLine
		for j := 0; j < bytesPerLine; j += 1 {
			if bytesPerLine/2 == j {
				fmt.Printf(" ")
			}
			if i+j < len(data) {
				fmt.Printf("%02x ", data[i+j])
			} else {
				fmt.Printf("   ")
			}
		}
		fmt.Printf(" |")
	ascii_loop:
		for j := 0; j < bytesPerLine; j += 1 {
			if i+j < len(data) {
				c := data[i+j]
				if c < 32 || c >= 127 {
					c = '.'
				}
				fmt.Printf("%c", c)
			} else {
				break ascii_loop
			}
		}
		fmt.Printf("|\n")
	}
}
