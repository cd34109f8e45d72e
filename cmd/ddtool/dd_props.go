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
	"strings"

	flag "github.com/juju/gnuflag"

	"github.com/dolthub/dictionary/cmd/ddtool/util"
	"github.com/dolthub/dictionary/libraries/ddcore/properties"
)

var ddProps = &util.Command{
	Run:       runProps,
	UsageLine: "props [-keys <k1,k2,...>] <raw>",
	Short:     "Parse a properties string",
	Long: `props parses a properties string of the form 'key=value;key=value;' as it is stored in the options and
se_private_data columns, and prints its canonical form followed by one line per pair. '=', ';' and '\' inside keys and
values are escaped with '\'.`,
	Flags: setupPropsFlags,
	Nargs: 1,
}

var propsKeys string

func setupPropsFlags() *flag.FlagSet {
	flagSet := flag.NewFlagSet("props", flag.ExitOnError)
	flagSet.StringVar(&propsKeys, "keys", "", "comma separated list of the only keys allowed")
	return flagSet
}

func runProps(ctx context.Context, args []string) int {
	if len(args) < 1 {
		return util.PrintError(out, fmt.Errorf("not enough arguments"))
	}

	var keys []string
	if propsKeys != "" {
		keys = strings.Split(propsKeys, ",")
	}

	props, err := properties.ParseWithKeys(args[0], keys...)
	if err != nil {
		return util.PrintError(out, err)
	}

	fmt.Fprintln(out, props.RawString())
	props.Iter(func(key, value string) bool {
		fmt.Fprintf(out, "  %s = %s\n", util.HeadColor.Sprint(key), value)
		return false
	})
	return 0
}
