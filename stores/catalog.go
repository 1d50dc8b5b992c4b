// Package stores knows how each storefront encodes its listing pages.
package stores

import "github.com/aluiziolira/go-game-deals/models"

var g2aGenres = map[models.Genre]string{
	models.Action:    "action-c2699",
	models.Adventure: "adventure-c1545",
	models.Rpg:       "rpg-c1550",
	models.Strategy:  "strategy-c1551",
	models.Horror:    "horror-c1543",
	models.Puzzle:    "puzzle-c1542",
	models.Casual:    "casual-c2994",
}

var kinguinGenres = map[models.Genre]string{
	models.Action:    "1",
	models.Adventure: "2",
	models.Rpg:       "4",
	models.Strategy:  "3",
	models.Horror:    "28",
	models.Puzzle:    "20",
	models.Casual:    "19",
}

var cdkeysGenres = map[models.Genre]string{
	models.Action:    "Action",
	models.Adventure: "Adventure",
	models.Rpg:       "RPG",
	models.Strategy:  "Strategy",
	models.Horror:    "Horror",
	models.Puzzle:    "Puzzle",
	models.Casual:    "Casual",
}

// CodeFor returns the store's category code for genre. Unknown genres
// resolve to the store's Action code.
func CodeFor(store models.Store, genre models.Genre) string {
	table := g2aGenres
	switch store {
	case models.Kinguin:
		table = kinguinGenres
	case models.CDKeys:
		table = cdkeysGenres
	}
	if code, ok := table[genre]; ok {
		return code
	}
	return table[models.Action]
}
