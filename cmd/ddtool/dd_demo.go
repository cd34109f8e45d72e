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
	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
)

var ddDemo = &util.Command{
	Run:       runDemo,
	UsageLine: "demo [-schema <name>]",
	Short:     "Store a small sample schema",
	Long:      "demo stores an authors and a books table, with indexes, a foreign key, range partitions and a trigger, and prints their ids.",
	Flags:     setupDemoFlags,
	Nargs:     0,
}

var demoSchema string

func setupDemoFlags() *flag.FlagSet {
	flagSet := flag.NewFlagSet("demo", flag.ExitOnError)
	flagSet.StringVar(&demoSchema, "schema", "library", "schema the sample tables are created in")
	return flagSet
}

func demoAuthors(d *systables.Descriptors, schema string) *dictionary.Table {
	tbl := dictionary.NewTable(d, schema, "authors")

	id := tbl.AddColumn("id", dictionary.ColumnTypeLong)
	id.SetNullable(false)
	id.SetUnsigned(true)
	id.SetAutoIncrement(true)
	name := tbl.AddColumn("name", dictionary.ColumnTypeVarchar)
	name.SetCharLength(128)

	tbl.AddIndex("PRIMARY", dictionary.IndexTypePrimary).AddElement(id)
	tbl.AddIndex("uk_name", dictionary.IndexTypeUnique).AddElement(name)
	return tbl
}

func demoBooks(d *systables.Descriptors, schema string) *dictionary.Table {
	tbl := dictionary.NewTable(d, schema, "books")
	tbl.SetComment("one row per edition")

	id := tbl.AddColumn("id", dictionary.ColumnTypeLong)
	id.SetNullable(false)
	id.SetUnsigned(true)
	author := tbl.AddColumn("author_id", dictionary.ColumnTypeLong)
	author.SetUnsigned(true)
	title := tbl.AddColumn("title", dictionary.ColumnTypeVarchar)
	title.SetCharLength(255)
	year := tbl.AddColumn("published", dictionary.ColumnTypeYear)

	format := tbl.AddColumn("format", dictionary.ColumnTypeEnum)
	for _, f := range []string{"hardcover", "paperback", "ebook"} {
		format.AddElement([]byte(f))
	}
	tags := tbl.AddColumn("tags", dictionary.ColumnTypeSet)
	for _, t := range []string{"fiction", "poetry", "reference"} {
		tags.AddElement([]byte(t))
	}

	pk := tbl.AddIndex("PRIMARY", dictionary.IndexTypePrimary)
	pk.AddElement(id)
	pk.AddElement(year)
	tbl.AddIndex("idx_author", dictionary.IndexTypeMultiple).AddElement(author)
	tbl.AddIndex("idx_title", dictionary.IndexTypeMultiple).AddElement(title).SetLength(32)

	fk := tbl.AddForeignKey("fk_author", schema, "authors")
	fk.SetUniqueConstraintName("PRIMARY")
	fk.SetDeleteRule(dictionary.RuleRestrict)
	fk.AddElement(author, "id")

	tbl.SetPartitioning(dictionary.PartitionTypeRange, "published")
	for _, bound := range []string{"1950", "2000", "MAXVALUE"} {
		p := tbl.AddPartition("p" + bound)
		p.SetDescription(bound)
		tbl.Indexes().Iter(func(idx *dictionary.Index) bool {
			p.AddIndex(idx)
			return false
		})
	}

	tbl.AddTrigger("books_bi", dictionary.TimingBefore, dictionary.EventInsert, "SET NEW.title = TRIM(NEW.title)")
	return tbl
}

func runDemo(ctx context.Context, args []string) int {
	return withDictionary(ctx, func(dd *catalog.Dictionary) error {
		for _, tbl := range []*dictionary.Table{
			demoAuthors(dd.Descriptors(), demoSchema),
			demoBooks(dd.Descriptors(), demoSchema),
		} {
			if err := dd.StoreTable(ctx, tbl); err != nil {
				return err
			}
			util.PrintOK(out, "stored %s.%s as table %d", tbl.SchemaName(), tbl.Name(), tbl.ID())
		}
		return nil
	})
}
