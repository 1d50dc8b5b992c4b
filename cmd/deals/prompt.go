package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aluiziolira/go-game-deals/config"
	"github.com/aluiziolira/go-game-deals/models"
)

// promptFilter asks for each filter value in turn. Anything that does not
// parse keeps that field's default.
func promptFilter(in io.Reader, out io.Writer) models.Filter {
	reader := bufio.NewReader(in)
	ask := func(message string) string {
		fmt.Fprintln(out, message)
		line, _ := reader.ReadString('\n')
		return line
	}

	var input config.FilterInput
	input.PriceMin = ask(fmt.Sprintf("Input minimum price (in PLN) (default: %v):", config.DefaultPriceMin))
	input.PriceMax = ask(fmt.Sprintf("Input maximum price (in PLN) (default: %v):", config.DefaultPriceMax))
	input.MinDiscount = ask(fmt.Sprintf("Input minimum sale (in %%) (default: %d):", config.DefaultMinDiscount))

	genreMsg := fmt.Sprintf("Input genre index (default: %d):", config.DefaultGenreIndex)
	for i, g := range models.Genres() {
		genreMsg += fmt.Sprintf("\n %d - %s", i, g)
	}
	input.GenreIndex = ask(genreMsg)

	return config.FilterFromInput(input)
}
