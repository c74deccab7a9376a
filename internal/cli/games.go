package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/wikigames/internal/state"
	"github.com/mesh-intelligence/wikigames/pkg/types"
)

var gameKind = recordKind[types.GameRecord]{
	noun:   "game",
	plural: "games",
	fields: []textField[types.GameRecord]{
		{flag: "name", usage: "game title", ptr: func(g *types.GameRecord) *string { return &g.Name }},
		{flag: "description", usage: "short description", ptr: func(g *types.GameRecord) *string { return &g.Description }},
		{flag: "genre", usage: "genre", ptr: func(g *types.GameRecord) *string { return &g.Genre }},
		{flag: "year", usage: "release year", ptr: func(g *types.GameRecord) *string { return &g.Year }},
		{flag: "developer", usage: "developer", ptr: func(g *types.GameRecord) *string { return &g.Developer }},
	},
	image: func(g *types.GameRecord) **string { return &g.ImageReference },
	id:    types.GameRecord.RecordID,

	coll:   (*state.Controller).Games,
	find:   (*state.Controller).Game,
	add:    (*state.Controller).AddGame,
	update: (*state.Controller).UpdateGame,
	remove: (*state.Controller).DeleteGame,

	header: []string{"ID", "NAME", "GENRE", "YEAR", "DEVELOPER", "IMAGE"},
	row: func(g types.GameRecord) []string {
		return []string{strconv.FormatInt(g.ID, 10), g.Name, g.Genre, g.Year, g.Developer, imageText(g.ImageReference)}
	},
}

func newGamesCmd(a *app) *cobra.Command {
	return newRecordCmd(a, gameKind)
}
