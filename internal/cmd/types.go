package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/hackcal/calendar"
)

var ShowTypesCmd = cli.Command{
	Name:               "types",
	Usage:              "Lists the event types, use --help to see a human readable list",
	Action:             showTypes,
	CustomHelpTemplate: showHelp(),
}

func writeHelpLabels(w io.StringWriter, types ...calendar.EventType) {
	for _, typ := range types {
		w.WriteString("\t")
		w.WriteString(typ.String())
		w.WriteString(": ")
		w.WriteString(typ.Label())
		w.WriteString("\n")
	}
}

func showHelp() string {
	h := strings.Builder{}
	h.WriteString("Valid event types:\n")
	writeHelpLabels(&h, calendar.ValidTypes[:]...)
	return h.String()
}

func showTypes(c *cli.Context) error {
	names := make([]string, 0, len(calendar.ValidTypes))
	for _, typ := range calendar.ValidTypes {
		names = append(names, typ.String())
	}
	fmt.Fprintf(c.App.Writer, "%s\n", strings.Join(names, ", "))
	return nil
}
