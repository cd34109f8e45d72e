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
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	flag "github.com/juju/gnuflag"

	"github.com/dolthub/dictionary/cmd/ddtool/util"
	"github.com/dolthub/dictionary/libraries/ddcore/catalog"
	"github.com/dolthub/dictionary/libraries/ddcore/sdi"
)

var ddSDI = &util.Command{
	Run:       runSDI,
	UsageLine: "sdi [-pack] [-o <file>] <table-id>",
	Short:     "Export a table as SDI",
	Long:      "sdi writes the serialized dictionary information of a table, a JSON document that import can read back into any dictionary of the same version.",
	Flags:     setupSDIFlags,
	Nargs:     1,
}

var (
	sdiPack bool
	sdiOut  string
)

func setupSDIFlags() *flag.FlagSet {
	flagSet := flag.NewFlagSet("sdi", flag.ExitOnError)
	flagSet.BoolVar(&sdiPack, "pack", false, "write the compressed, checksummed form")
	flagSet.StringVar(&sdiOut, "o", "", "write to the given file instead of stdout")
	return flagSet
}

func runSDI(ctx context.Context, args []string) int {
	if len(args) < 1 {
		return util.PrintError(out, fmt.Errorf("not enough arguments"))
	}

	id, err := parseTableID(args[0])
	if err != nil {
		return util.PrintError(out, err)
	}

	return withDictionary(ctx, func(dd *catalog.Dictionary) error {
		doc, err := dd.TableSDI(ctx, id)
		if err != nil {
			return err
		}

		if sdiPack {
			doc = sdi.Pack(doc)
		} else {
			var buf bytes.Buffer
			if err = json.Indent(&buf, doc, "", "  "); err != nil {
				return err
			}
			buf.WriteByte('\n')
			doc = buf.Bytes()
		}

		if sdiOut != "" {
			if err = os.WriteFile(sdiOut, doc, 0644); err != nil {
				return err
			}
			util.PrintOK(out, "wrote %s SDI of table %d to %s", humanize.Bytes(uint64(len(doc))), id, sdiOut)
			return nil
		}

		_, err = out.Write(doc)
		return err
	})
}
