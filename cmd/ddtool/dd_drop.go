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
	"fmt"

	flag "github.com/juju/gnuflag"

	"github.com/dolthub/dictionary/cmd/ddtool/util"
	"github.com/dolthub/dictionary/libraries/ddcore/catalog"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
)

var ddDrop = &util.Command{
	Run:       runDrop,
	UsageLine: "drop <table-id>",
	Short:     "Drop a table",
	Long:      "drop removes the table with the given id and every column, index, foreign key, partition and trigger it owns.",
	Flags:     setupDropFlags,
	Nargs:     1,
}

func setupDropFlags() *flag.FlagSet {
	return flag.NewFlagSet("drop", flag.ExitOnError)
}

func runDrop(ctx context.Context, args []string) int {
	if len(args) < 1 {
		return util.PrintError(out, fmt.Errorf("not enough arguments"))
	}

	id, err := parseTableID(args[0])
	if err != nil {
		return util.PrintError(out, err)
	}

	return withDictionary(ctx, func(dd *catalog.Dictionary) error {
		if err := dd.DropTable(ctx, id); err != nil {
			if object.ErrObjectNotFound.Is(err) {
				return fmt.Errorf("no table with id %d", id)
			}
			return err
		}
		util.PrintOK(out, "dropped table %d", id)
		return nil
	})
}
