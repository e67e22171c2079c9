// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Zerochain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/zerochain/zerod/blockring"
	"github.com/zerochain/zerod/storage"
	"github.com/zerochain/zerod/util"
)

// basic defaults (directories and files are relative to the
// "data_directory" from the configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the directory of the config file

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "zerod.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "zerod.log"
	defaultLogCount     = 10
	defaultLogSize      = 1024 * 1024
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

var defaultLogLevels = LoglevelMap{
	logger.DefaultTag: "error",
}

// DatabaseType - storage selection
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
	Backend   string `gluamapper:"backend" json:"backend"`

	// the in-memory backend loses everything on exit; it is only
	// accepted when this flag acknowledges that
	AllowEphemeral bool `gluamapper:"allow_ephemeral" json:"allow_ephemeral"`
}

// Configuration - the full configuration of a node
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	RingSize     int      `gluamapper:"ring_size" json:"ring_size"`
	PeerListen   []string `gluamapper:"peer_listen" json:"peer_listen"`
	RPCListen    []string `gluamapper:"rpc_listen" json:"rpc_listen"`
	MinerAddress string   `gluamapper:"miner_address" json:"miner_address"`

	Logging logger.Configuration `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - read, decode and verify a configuration file
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabaseName,
			Backend:   storage.LevelDBBackend,
		},

		RingSize: blockring.DefaultSize,

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	switch options.Database.Backend {
	case storage.LevelDBBackend:
	case storage.MemoryBackend:
		if !options.Database.AllowEphemeral {
			return nil, fmt.Errorf("backend: %q loses all data on exit, set allow_ephemeral to accept", options.Database.Backend)
		}
	default:
		return nil, fmt.Errorf("backend: %q is not supported", options.Database.Backend)
	}

	if options.RingSize <= 0 {
		return nil, fmt.Errorf("ring_size: %d must be positive", options.RingSize)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them relative to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	return options, nil
}

// DatabasePath - the full path of the database directory
func (c *Configuration) DatabasePath() string {
	return filepath.Join(c.Database.Directory, c.Database.Name)
}
