package bots

import (
	"fmt"
	"time"

	"chessbot/engine"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
)

// Position is what the searcher needs from the rules engine. Push and Pop
// mutate one shared state in place and must be exact inverses.
type Position interface {
	PieceReader
	LegalMoves() []*chess.Move
	Push(m *chess.Move)
	Pop() bool
	IsGameOver() bool
	Turn() chess.Color
}

// SearchStats counts the work done by a Searcher.
type SearchStats struct {
	Nodes   int
	Leaves  int
	Cutoffs int
}

// Searcher runs a fixed-depth, fail-soft alpha-beta search. Scores are
// always from the evaluator's perspective; the maximizing side is passed
// explicitly rather than derived from whose turn it is.
type Searcher struct {
	Evaluator Evaluator
	Stats     SearchStats
}

// Search returns the minimax value of pos searched depth plies deep.
// Game-over positions and depth zero return the static evaluation as is.
func (s *Searcher) Search(pos Position, alpha, beta Score, maximizing bool, depth int) Score {
	s.Stats.Nodes++
	if depth == 0 || pos.IsGameOver() {
		s.Stats.Leaves++
		return s.Evaluator.Evaluate(pos)
	}

	if maximizing {
		best := -Infinity
		for _, m := range pos.LegalMoves() {
			v := s.searchChild(pos, m, alpha, beta, false, depth-1)
			best = max(best, v)
			alpha = max(alpha, v)
			if alpha >= beta {
				s.Stats.Cutoffs++
				break
			}
		}
		return best
	}

	best := Infinity
	for _, m := range pos.LegalMoves() {
		v := s.searchChild(pos, m, alpha, beta, true, depth-1)
		best = min(best, v)
		beta = min(beta, v)
		if alpha >= beta {
			s.Stats.Cutoffs++
			break
		}
	}
	return best
}

// searchChild plays m, searches the result and takes m back on the way out.
func (s *Searcher) searchChild(pos Position, m *chess.Move, alpha, beta Score, maximizing bool, depth int) Score {
	pos.Push(m)
	defer pos.Pop()
	return s.Search(pos, alpha, beta, maximizing, depth)
}

// PickBestMove chooses a move for the side to move. Scores are kept from
// the opponent's perspective, so the side to move minimizes. Of several
// moves sharing the lowest score the first one enumerated wins. It returns
// nil when there are no legal moves.
func (s *Searcher) PickBestMove(pos Position, depth int) *chess.Move {
	var bestMove *chess.Move
	bestScore := Infinity
	for _, m := range pos.LegalMoves() {
		v := s.searchChild(pos, m, -Infinity, Infinity, true, depth)
		if v < bestScore {
			bestScore = v
			bestMove = m
		}
	}
	return bestMove
}

// AlphaBetaBot plays the move PickBestMove chooses at a fixed depth,
// scoring material from the opponent's point of view.
type AlphaBetaBot struct {
	Depth int
}

func NewAlphaBetaBot(depth int) *AlphaBetaBot {
	return &AlphaBetaBot{Depth: depth}
}

func (b *AlphaBetaBot) Name() string {
	return fmt.Sprintf("Alpha-Beta Bot (depth %d)", b.Depth)
}

func (b *AlphaBetaBot) BestMove(board *engine.Board) *chess.Move {
	if board == nil {
		return nil
	}
	s := &Searcher{Evaluator: MaterialEvaluator{Perspective: board.Turn().Other()}}
	start := time.Now()
	m := s.PickBestMove(board, b.Depth)
	chosen := "none"
	if m != nil {
		chosen = m.String()
	}
	log.Debug().
		Int("depth", b.Depth).
		Str("turn", board.Turn().String()).
		Str("move", chosen).
		Int("nodes", s.Stats.Nodes).
		Int("leaves", s.Stats.Leaves).
		Int("cutoffs", s.Stats.Cutoffs).
		Dur("elapsed", time.Since(start)).
		Msg("alphabeta-search")
	return m
}
