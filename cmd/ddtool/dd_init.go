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

package main

import (
	"context"

	flag "github.com/juju/gnuflag"

	"github.com/dolthub/dictionary/cmd/ddtool/util"
	"github.com/dolthub/dictionary/libraries/ddcore/catalog"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
)

var ddInit = &util.Command{
	Run:       runInit,
	UsageLine: "init",
	Short:     "Create the dictionary tables",
	Long:      "init creates the dictionary tables in the configured store, if missing, and prints the dictionary instance id.",
	Flags:     setupInitFlags,
	Nargs:     0,
}

func setupInitFlags() *flag.FlagSet {
	return flag.NewFlagSet("init", flag.ExitOnError)
}

func runInit(ctx context.Context, args []string) int {
	return withDictionary(ctx, func(dd *catalog.Dictionary) error {
		util.PrintOK(out, "dictionary %s ready, version %d", dd.InstanceID(), systables.DDVersion)
		return nil
	})
}
