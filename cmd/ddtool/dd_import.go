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
	"os"
	"strconv"

	flag "github.com/juju/gnuflag"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dolthub/dictionary/cmd/ddtool/util"
	"github.com/dolthub/dictionary/libraries/ddcore/catalog"
	"github.com/dolthub/dictionary/libraries/ddcore/sdi"
)

var ddImport = &util.Command{
	Run:       runImport,
	UsageLine: "import [-schema <name>] [-name <name>] <file>",
	Short:     "Import a table from an SDI file",
	Long: `import stores the table described by an SDI file, plain or packed, as a new table and prints its id. With
-schema or -name the table is imported under a different name; foreign keys referencing the table itself are
renamed with it.`,
	Flags: setupImportFlags,
	Nargs: 1,
}

var (
	importSchema string
	importName   string
)

func setupImportFlags() *flag.FlagSet {
	flagSet := flag.NewFlagSet("import", flag.ExitOnError)
	flagSet.StringVar(&importSchema, "schema", "", "schema to import the table into")
	flagSet.StringVar(&importName, "name", "", "name to import the table as")
	return flagSet
}

// readSDI reads an SDI file, unpacking it unless it already is a JSON document.
func readSDI(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if gjson.ValidBytes(data) {
		return data, nil
	}
	return sdi.Unpack(data)
}

// retarget renames the table described by doc. Empty arguments keep the current names.
func retarget(doc []byte, schema, name string) ([]byte, error) {
	info, err := sdi.Header(doc)
	if err != nil {
		return nil, err
	}
	if schema == "" {
		schema = info.SchemaName
	}
	if name == "" {
		name = info.Name
	}

	i := 0
	gjson.GetBytes(doc, "dd_object.foreign_keys").ForEach(func(_, fk gjson.Result) bool {
		path := "dd_object.foreign_keys." + strconv.Itoa(i)
		i++
		if fk.Get("referenced_table_schema_name").String() != info.SchemaName || fk.Get("referenced_table_name").String() != info.Name {
			return true
		}
		if doc, err = sjson.SetBytes(doc, path+".referenced_table_schema_name", schema); err != nil {
			return false
		}
		doc, err = sjson.SetBytes(doc, path+".referenced_table_name", name)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	if doc, err = sjson.SetBytes(doc, "dd_object.schema_ref", schema); err != nil {
		return nil, err
	}
	return sjson.SetBytes(doc, "dd_object.name", name)
}

func runImport(ctx context.Context, args []string) int {
	if len(args) < 1 {
		return util.PrintError(out, fmt.Errorf("not enough arguments"))
	}

	doc, err := readSDI(args[0])
	if err == nil && (importSchema != "" || importName != "") {
		doc, err = retarget(doc, importSchema, importName)
	}
	if err != nil {
		return util.PrintError(out, err)
	}

	return withDictionary(ctx, func(dd *catalog.Dictionary) error {
		tbl, err := dd.ImportSDI(ctx, doc)
		if err != nil {
			return err
		}
		util.PrintOK(out, "imported %s.%s as table %d", tbl.SchemaName(), tbl.Name(), tbl.ID())
		return nil
	})
}
