// bot.go
package bots

import (
	"errors"
	"fmt"
	"sort"

	"chessbot/engine"

	"github.com/notnil/chess"
)

var ErrUnknownBot = errors.New("unknown bot")

// ChessBot picks a move for the side to move. It returns nil when there is
// no legal move.
type ChessBot interface {
	BestMove(board *engine.Board) *chess.Move
	Name() string
}

var registry = map[string]func(depth int) ChessBot{
	"alphabeta": func(depth int) ChessBot { return NewAlphaBetaBot(depth) },
	"newborn":   func(int) ChessBot { return NewNewbornBot() },
	"random":    func(int) ChessBot { return NewRandomBot() },
}

// New builds the bot registered under name. depth only matters to
// searching bots.
func New(name string, depth int) (ChessBot, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
	}
	return mk(depth), nil
}

// Names lists the registered bots in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
