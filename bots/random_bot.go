package bots

import (
	"chessbot/engine"

	"github.com/notnil/chess"
	"lukechampine.com/frand"
)

// RandomBot plays a uniformly random legal move.
type RandomBot struct{}

func NewRandomBot() *RandomBot {
	return &RandomBot{}
}

func (b *RandomBot) BestMove(board *engine.Board) *chess.Move {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return nil
	}
	return moves[frand.Intn(len(moves))]
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
