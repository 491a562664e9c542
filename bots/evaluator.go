package bots

import "github.com/notnil/chess"

// Score is a material balance seen from one fixed side. Higher is always
// better for that side, whoever is to move.
type Score int

// Infinity bounds every score the evaluator can produce.
const Infinity Score = 1 << 30

// Material weights. The king is never scored.
var pieceValues = map[chess.PieceType]Score{
	chess.Pawn:   3,
	chess.Knight: 6,
	chess.Bishop: 6,
	chess.Rook:   12,
	chess.Queen:  24,
	chess.King:   0,
}

// PieceReader is the part of a position the evaluator looks at.
// *chess.Board and *engine.Board both satisfy it.
type PieceReader interface {
	Piece(sq chess.Square) chess.Piece
}

// Evaluator scores a position statically, without search.
type Evaluator interface {
	Evaluate(pos PieceReader) Score
}

// MaterialEvaluator sums piece weights, positive for Perspective and
// negative for its opponent.
type MaterialEvaluator struct {
	Perspective chess.Color
}

func (e MaterialEvaluator) Evaluate(pos PieceReader) Score {
	var score Score
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := pos.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := pieceValues[piece.Type()]
		if piece.Color() == e.Perspective {
			score += value
		} else {
			score -= value
		}
	}
	return score
}
