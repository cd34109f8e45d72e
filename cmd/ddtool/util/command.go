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

// Package util holds the Command type shared by the ddtool subcommands.
package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	flag "github.com/juju/gnuflag"
)

type Command struct {
	// Run runs the command.
	// The args are the arguments after the command name.
	Run func(ctx context.Context, args []string) int
	// Flags is a set of flags specific to this command.
	Flags func() *flag.FlagSet
	// UsageLine is the one-line usage message.
	// The first word in the line is taken to be the command name.
	UsageLine string
	// Short is the short description shown in the 'help' output.
	Short string
	// Long is the long message shown in the 'help <this-command>' output.
	Long string
	// Nargs is the minimum number of arguments expected after flags, specific to this command.
	Nargs int
}

// Name returns the command's name: the first word in the usage line.
func (c *Command) Name() string {
	name := c.UsageLine
	if i := strings.Index(name, " "); i >= 0 {
		name = name[:i]
	}
	return name
}

func countFlags(flags *flag.FlagSet) int {
	if flags == nil {
		return 0
	}
	n := 0
	flags.VisitAll(func(f *flag.Flag) {
		n++
	})
	return n
}

// PrintUsage writes the usage of c to w. Flag defaults go to the flag set's own output.
func (c *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s\n\n", c.UsageLine)
	fmt.Fprintf(w, "%s\n", strings.TrimSpace(c.Long))
	flags := c.Flags()
	if countFlags(flags) > 0 {
		fmt.Fprintf(w, "\noptions:\n")
		flags.PrintDefaults()
	}
}

func (c *Command) Usage() {
	c.PrintUsage(os.Stderr)
	os.Exit(1)
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
	HeadColor = color.New(color.FgYellow, color.Bold)
)

// PrintError writes err to w in red and returns the exit code for a failed command.
func PrintError(w io.Writer, err error) int {
	errColor.Fprintf(w, "error: %s\n", err.Error())
	return 1
}

// PrintOK writes a green status line to w.
func PrintOK(w io.Writer, format string, args ...interface{}) {
	okColor.Fprintf(w, format+"\n", args...)
}

// CheckErrorNoUsage exits with a printed error if err is not nil.
func CheckErrorNoUsage(err error) {
	if err != nil {
		os.Exit(PrintError(os.Stderr, err))
	}
}
