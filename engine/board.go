// Package engine adapts github.com/notnil/chess to the mutable,
// push/pop board the search works on.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrBadNotation = errors.New("bad move notation")
	ErrInvalidFEN  = errors.New("invalid FEN")
)

const (
	seventyFiveRule = 150 // half-moves
	fivefoldCount   = 5
)

// Board is a single mutable game state. notnil/chess positions are
// immutable, so Push appends the successor position and Pop drops it again.
type Board struct {
	positions []*chess.Position
	keys      []string
	moves     []*chess.Move
}

func newBoard(pos *chess.Position) *Board {
	return &Board{
		positions: []*chess.Position{pos},
		keys:      []string{repetitionKey(pos)},
	}
}

// NewBoard returns a board set up at the standard starting position.
func NewBoard() *Board {
	return newBoard(chess.NewGame().Position())
}

// FromFEN returns a board set up at the given FEN position.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return newBoard(chess.NewGame(opt).Position()), nil
}

// Clone returns a board with its own stack. Positions are shared since they
// are never mutated.
func (b *Board) Clone() *Board {
	c := &Board{
		positions: make([]*chess.Position, len(b.positions)),
		keys:      make([]string, len(b.keys)),
		moves:     make([]*chess.Move, len(b.moves)),
	}
	copy(c.positions, b.positions)
	copy(c.keys, b.keys)
	copy(c.moves, b.moves)
	return c
}

func (b *Board) Position() *chess.Position {
	return b.positions[len(b.positions)-1]
}

func (b *Board) Turn() chess.Color {
	return b.Position().Turn()
}

func (b *Board) Piece(sq chess.Square) chess.Piece {
	return b.Position().Board().Piece(sq)
}

// LegalMoves enumerates the moves for the side to move. The order is the
// generator's and is stable for a given position.
func (b *Board) LegalMoves() []*chess.Move {
	return b.Position().ValidMoves()
}

// Push plays m, which must be one of LegalMoves.
func (b *Board) Push(m *chess.Move) {
	next := b.Position().Update(m)
	b.positions = append(b.positions, next)
	b.keys = append(b.keys, repetitionKey(next))
	b.moves = append(b.moves, m)
}

// Pop takes back the last pushed move. It reports false when there is
// nothing to take back.
func (b *Board) Pop() bool {
	if len(b.moves) == 0 {
		return false
	}
	b.positions = b.positions[:len(b.positions)-1]
	b.keys = b.keys[:len(b.keys)-1]
	b.moves = b.moves[:len(b.moves)-1]
	return true
}

// Apply pushes m and returns the function that undoes it.
func (b *Board) Apply(m *chess.Move) func() {
	b.Push(m)
	return func() { b.Pop() }
}

// Moves returns the moves played since the board was created.
func (b *Board) Moves() []*chess.Move {
	return append([]*chess.Move(nil), b.moves...)
}

// Ply is the number of moves pushed on this board.
func (b *Board) Ply() int {
	return len(b.moves)
}

func (b *Board) FEN() string {
	return b.Position().String()
}

// Draw renders the board with unicode pieces, white at the bottom.
func (b *Board) Draw() string {
	return b.Position().Board().Draw()
}

// ParseUCI returns the legal move written as s in UCI notation (e2e4, e7e8q).
func (b *Board) ParseUCI(s string) (*chess.Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return nil, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	if _, err := (chess.UCINotation{}).Decode(b.Position(), s); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	for _, m := range b.LegalMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// SAN renders m in standard algebraic notation for the current position.
func (b *Board) SAN(m *chess.Move) string {
	return (chess.AlgebraicNotation{}).Encode(b.Position(), m)
}

// Method reports why the game ended, or chess.NoMethod while it is still on.
// Only the conditions that end a game without a claim are considered.
func (b *Board) Method() chess.Method {
	pos := b.Position()
	if st := pos.Status(); st != chess.NoMethod {
		return st
	}
	if insufficientMaterial(pos.Board()) {
		return chess.InsufficientMaterial
	}
	if pos.HalfMoveClock() >= seventyFiveRule {
		return chess.SeventyFiveMoveRule
	}
	if b.repetitions() >= fivefoldCount {
		return chess.FivefoldRepetition
	}
	return chess.NoMethod
}

// IsGameOver collapses checkmate, stalemate and the automatic draws into
// one flag.
func (b *Board) IsGameOver() bool {
	return b.Method() != chess.NoMethod
}

func (b *Board) Outcome() chess.Outcome {
	switch b.Method() {
	case chess.NoMethod:
		return chess.NoOutcome
	case chess.Checkmate:
		if b.Turn() == chess.White {
			return chess.BlackWon
		}
		return chess.WhiteWon
	default:
		return chess.Draw
	}
}

// repetitions counts how often the current position has occurred. Only
// positions since the last capture or pawn move can match.
func (b *Board) repetitions() int {
	last := len(b.keys) - 1
	first := max(0, last-b.Position().HalfMoveClock())
	n := 0
	for i := first; i <= last; i++ {
		if b.keys[i] == b.keys[last] {
			n++
		}
	}
	return n
}

// repetitionKey is the FEN without its move counters: placement, side to
// move, castling rights and en passant square.
func repetitionKey(pos *chess.Position) string {
	fields := strings.Fields(pos.String())
	return strings.Join(fields[:4], " ")
}

// insufficientMaterial reports bare kings, a single minor piece, or bishops
// that all stand on squares of one colour.
func insufficientMaterial(bd *chess.Board) bool {
	var minors, bishops, knights int
	var bishopColors [2]int
	for sq, p := range bd.SquareMap() {
		switch p.Type() {
		case chess.King:
		case chess.Bishop:
			bishops++
			minors++
			bishopColors[(int(sq.File())+int(sq.Rank()))%2]++
		case chess.Knight:
			knights++
			minors++
		default:
			return false
		}
	}
	switch {
	case minors <= 1:
		return true
	case knights == 0 && (bishopColors[0] == 0 || bishopColors[1] == 0):
		return bishops > 0
	}
	return false
}
