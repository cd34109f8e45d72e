// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// ddtool inspects and edits a stored data dictionary.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	flag "github.com/juju/gnuflag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/dictionary/cmd/ddtool/util"
	"github.com/dolthub/dictionary/libraries/ddcore/catalog"
	"github.com/dolthub/dictionary/libraries/ddcore/ddconfig"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
)

var commands = []*util.Command{
	ddInit,
	ddDemo,
	ddShow,
	ddSDI,
	ddImport,
	ddDrop,
	ddProps,
}

var (
	configPath string
	dbPath     string

	// out receives command output; replaced in tests.
	out io.Writer = color.Output
)

func usage() {
	fmt.Fprintf(os.Stderr, "ddtool is a tool for inspecting a data dictionary.\n\nusage: ddtool [-config <file>] [-db <bolt file>] <command> [args]\n\ncommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", cmd.Name(), cmd.Short)
	}
}

func main() {
	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&dbPath, "db", "", "bolt file holding the dictionary, overrides the store section of the config")
	flag.Usage = usage
	flag.Parse(false)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	for _, cmd := range commands {
		if cmd.Name() == args[0] {
			flags := cmd.Flags()
			flags.Usage = cmd.Usage

			flags.Parse(true, args[1:])
			args = flags.Args()
			if cmd.Nargs != 0 && len(args) < cmd.Nargs {
				cmd.Usage()
			}
			if exitCode := cmd.Run(context.Background(), args); exitCode != 0 {
				os.Exit(exitCode)
			}
			return
		}
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
	usage()
	os.Exit(1)
}

func loadConfig() (*ddconfig.YAMLConfig, error) {
	cfg := ddconfig.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = ddconfig.YAMLConfigFromFile(configPath); err != nil {
			return nil, err
		}
	}

	if dbPath != "" {
		cfg.Store.Backend = ddconfig.BackendBolt
		cfg.Store.Path = dbPath
	}
	return cfg, nil
}

// openDictionary opens the dictionary described by the global flags.
func openDictionary(ctx context.Context) (*catalog.Dictionary, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := ddconfig.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(os.Stderr)

	return ddconfig.OpenDictionary(ctx, cfg, logrus.NewEntry(logger), prometheus.NewRegistry())
}

// withDictionary opens the dictionary, runs fn and closes it again, turning errors into an exit code.
func withDictionary(ctx context.Context, fn func(dd *catalog.Dictionary) error) int {
	dd, err := openDictionary(ctx)
	if err != nil {
		return util.PrintError(os.Stderr, err)
	}

	err = fn(dd)
	if cerr := dd.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return util.PrintError(os.Stderr, err)
	}
	return 0
}

func parseTableID(arg string) (object.ID, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || !object.ID(id).IsValid() {
		return object.InvalidObjectID, fmt.Errorf("invalid table id '%s'", arg)
	}
	return object.ID(id), nil
}
