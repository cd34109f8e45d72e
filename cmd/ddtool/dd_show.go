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
	"io"
	"strings"

	flag "github.com/juju/gnuflag"

	"github.com/dolthub/dictionary/cmd/ddtool/util"
	"github.com/dolthub/dictionary/libraries/ddcore/catalog"
	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
)

var ddShow = &util.Command{
	Run:       runShow,
	UsageLine: "show <table-id>",
	Short:     "Describe a table",
	Long:      "show prints a table with its columns, indexes, foreign keys, partitions and triggers.",
	Flags:     setupShowFlags,
	Nargs:     1,
}

var showHidden bool

func setupShowFlags() *flag.FlagSet {
	flagSet := flag.NewFlagSet("show", flag.ExitOnError)
	flagSet.BoolVar(&showHidden, "hidden", false, "include hidden columns and indexes")
	return flagSet
}

func runShow(ctx context.Context, args []string) int {
	if len(args) < 1 {
		return util.PrintError(out, fmt.Errorf("not enough arguments"))
	}

	id, err := parseTableID(args[0])
	if err != nil {
		return util.PrintError(out, err)
	}

	return withDictionary(ctx, func(dd *catalog.Dictionary) error {
		tbl, err := dd.AcquireTable(ctx, id)
		if err != nil {
			return err
		}
		printTable(out, tbl, showHidden)
		return nil
	})
}

func columnNames(cols []*dictionary.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}

func printTable(w io.Writer, tbl *dictionary.Table, hidden bool) {
	util.HeadColor.Fprintf(w, "table %s.%s", tbl.SchemaName(), tbl.Name())
	fmt.Fprintf(w, " (id %d, engine %s, row format %s)\n", tbl.ID(), tbl.Engine(), tbl.RowFormat())
	if tbl.Comment() != "" {
		fmt.Fprintf(w, "  comment: %s\n", tbl.Comment())
	}
	if !tbl.Options().Empty() {
		fmt.Fprintf(w, "  options: %s\n", tbl.Options())
	}

	util.HeadColor.Fprintln(w, "columns")
	iter := tbl.Columns().IterVisible
	if hidden {
		iter = tbl.Columns().Iter
	}
	iter(func(c *dictionary.Column) bool {
		fmt.Fprintf(w, "  %d %s %s", c.OrdinalPosition(), c.Name(), c.Type())
		if c.Elements().Size() > 0 {
			vals := make([]string, 0, c.Elements().Size())
			c.Elements().Iter(func(e *dictionary.ColumnTypeElement) bool {
				vals = append(vals, "'"+e.Name()+"'")
				return false
			})
			fmt.Fprintf(w, "(%s)", strings.Join(vals, ","))
		}
		if !c.IsNullable() {
			fmt.Fprint(w, " NOT NULL")
		}
		if c.IsAutoIncrement() {
			fmt.Fprint(w, " AUTO_INCREMENT")
		}
		if !c.IsDefaultValueUTF8Null() {
			fmt.Fprintf(w, " DEFAULT '%s'", c.DefaultValueUTF8())
		}
		if c.IsHidden() {
			fmt.Fprintf(w, " HIDDEN(%s)", c.Hidden())
		}
		fmt.Fprintln(w)
		return false
	})

	if tbl.Indexes().Size() > 0 {
		util.HeadColor.Fprintln(w, "indexes")
		tbl.Indexes().Iter(func(idx *dictionary.Index) bool {
			if idx.IsHidden() && !hidden {
				return false
			}
			fmt.Fprintf(w, "  %s %s USING %s (%s)", idx.Type(), idx.Name(), idx.Algorithm(), columnNames(idx.Columns()))
			if !idx.IsVisible() {
				fmt.Fprint(w, " INVISIBLE")
			}
			fmt.Fprintln(w)
			return false
		})
	}

	if tbl.ForeignKeys().Size() > 0 {
		util.HeadColor.Fprintln(w, "foreign keys")
		tbl.ForeignKeys().Iter(func(fk *dictionary.ForeignKey) bool {
			var cols, refs []string
			fk.Elements().Iter(func(e *dictionary.ForeignKeyElement) bool {
				cols = append(cols, e.Column().Name())
				refs = append(refs, e.ReferencedColumnName())
				return false
			})
			fmt.Fprintf(w, "  %s (%s) REFERENCES %s.%s (%s) ON UPDATE %s ON DELETE %s, unique constraint %s\n",
				fk.Name(), strings.Join(cols, ", "), fk.ReferencedTableSchema(), fk.ReferencedTableName(),
				strings.Join(refs, ", "), fk.UpdateRule(), fk.DeleteRule(), fk.UniqueConstraintName())
			return false
		})
	}

	if tbl.Partitions().Size() > 0 {
		util.HeadColor.Fprintf(w, "partitions")
		fmt.Fprintf(w, " by %s (%s)\n", tbl.PartitionType(), tbl.PartitionExpression())
		tbl.Partitions().Iter(func(p *dictionary.Partition) bool {
			fmt.Fprintf(w, "  %d %s", p.Number(), p.Name())
			if !p.IsDescriptionNull() {
				fmt.Fprintf(w, " VALUES %s", p.Description())
			}
			fmt.Fprintf(w, ", %d indexes\n", p.Indexes().Size())
			return false
		})
	}

	if tbl.Triggers().Size() > 0 {
		util.HeadColor.Fprintln(w, "triggers")
		tbl.Triggers().Iter(func(tr *dictionary.Trigger) bool {
			fmt.Fprintf(w, "  %s %s %s #%d: %s\n", tr.Name(), tr.Timing(), tr.Event(), tr.ActionOrder(), tr.Statement())
			return false
		})
	}
}
