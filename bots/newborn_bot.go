package bots

import (
	"chessbot/engine"

	"github.com/notnil/chess"
)

// NewbornBot always plays the first legal move.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(board *engine.Board) *chess.Move {
	moves := board.LegalMoves()
	if len(moves) > 0 {
		return moves[0]
	}
	return nil
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
