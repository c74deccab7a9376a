package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/wikigames/internal/state"
	"github.com/mesh-intelligence/wikigames/pkg/types"
)

var consoleKind = recordKind[types.ConsoleRecord]{
	noun:   "console",
	plural: "consoles",
	fields: []textField[types.ConsoleRecord]{
		{flag: "name", usage: "console name", ptr: func(c *types.ConsoleRecord) *string { return &c.Name }},
		{flag: "description", usage: "short description", ptr: func(c *types.ConsoleRecord) *string { return &c.Description }},
		{flag: "manufacturer", usage: "manufacturer", ptr: func(c *types.ConsoleRecord) *string { return &c.Manufacturer }},
		{flag: "release-year", usage: "release year", ptr: func(c *types.ConsoleRecord) *string { return &c.ReleaseYear }},
		{flag: "generation", usage: "hardware generation", ptr: func(c *types.ConsoleRecord) *string { return &c.Generation }},
	},
	image: func(c *types.ConsoleRecord) **string { return &c.ImageReference },
	id:    types.ConsoleRecord.RecordID,

	coll:   (*state.Controller).Consoles,
	find:   (*state.Controller).Console,
	add:    (*state.Controller).AddConsole,
	update: (*state.Controller).UpdateConsole,
	remove: (*state.Controller).DeleteConsole,

	header: []string{"ID", "NAME", "MANUFACTURER", "RELEASED", "GENERATION", "IMAGE"},
	row: func(c types.ConsoleRecord) []string {
		return []string{strconv.FormatInt(c.ID, 10), c.Name, c.Manufacturer, c.ReleaseYear, c.Generation, imageText(c.ImageReference)}
	},
}

func newConsolesCmd(a *app) *cobra.Command {
	return newRecordCmd(a, consoleKind)
}
