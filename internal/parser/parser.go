package parser

import "git.lost.host/meutraa/vsrg/internal/game"

type Parser interface {
	// Parse reads a single chart file
	Parse(file string) (*game.Chart, error)
	// Find returns every chart file below a directory
	Find(directory string) ([]string, error)
}
