package bots

import (
	"testing"

	"chessbot/engine"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// minimax is the same search with no window, used as the reference value.
func minimax(e Evaluator, pos Position, maximizing bool, depth int) Score {
	if depth == 0 || pos.IsGameOver() {
		return e.Evaluate(pos)
	}
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range pos.LegalMoves() {
		pos.Push(m)
		v := minimax(e, pos, !maximizing, depth-1)
		pos.Pop()
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

// spyPosition records how the searcher drives the board.
type spyPosition struct {
	*engine.Board
	pushes, pops, maxDepth int
}

func (p *spyPosition) Push(m *chess.Move) {
	p.pushes++
	p.Board.Push(m)
	p.maxDepth = max(p.maxDepth, p.pushes-p.pops)
}

func (p *spyPosition) Pop() bool {
	p.pops++
	return p.Board.Pop()
}

func whiteSearcher() *Searcher {
	return &Searcher{Evaluator: MaterialEvaluator{Perspective: chess.White}}
}

func TestSearchDepthZeroIsEvaluation(t *testing.T) {
	b := mustBoard(t, "r3k2r/8/8/8/8/8/8/3QK3 w - - 0 1")
	s := whiteSearcher()
	want := s.Evaluator.Evaluate(b)
	require.Equal(t, want, s.Search(b, -Infinity, Infinity, true, 0))
	require.Equal(t, want, s.Search(b, -Infinity, Infinity, false, 0))
	require.Equal(t, 2, s.Stats.Leaves)
}

func TestSearchGameOverIsEvaluation(t *testing.T) {
	// White is mated; the search does not look for moves.
	b := mustBoard(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	s := whiteSearcher()
	require.Equal(t, Score(0), s.Search(b, -Infinity, Infinity, true, 4))
	require.Equal(t, 1, s.Stats.Nodes)
}

func TestSearchMatchesMinimax(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
	}{
		{"opening", startFEN, 2},
		{"open middlegame", "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4", 2},
		{"hanging pieces", "r3k2r/ppp2ppp/2n5/3qp3/1b1P4/2N2N2/PPP2PPP/R1BQK2R b KQkq - 0 1", 2},
		{"rook endgame", "3r2k1/5ppp/8/8/8/8/5PPP/R5K1 b - - 0 1", 3},
		{"queen endgame", "8/5k2/8/3q4/4P3/8/2K5/8 w - - 0 1", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.fen)
			before := b.FEN()
			e := MaterialEvaluator{Perspective: b.Turn().Other()}
			for _, maximizing := range []bool{true, false} {
				s := &Searcher{Evaluator: e}
				got := s.Search(b, -Infinity, Infinity, maximizing, tt.depth)
				require.Equal(t, minimax(e, b, maximizing, tt.depth), got)
				require.Equal(t, before, b.FEN())
			}
		})
	}
}

func TestSearchPrunes(t *testing.T) {
	b := mustBoard(t, startFEN)
	s := whiteSearcher()
	s.Search(b, -Infinity, Infinity, true, 3)
	require.Positive(t, s.Stats.Cutoffs)
	// 20 + 400 + 8902 nodes below the root without pruning.
	require.Less(t, s.Stats.Nodes, 1+20+400+8902)
}

func TestSearchRestoresBoard(t *testing.T) {
	spy := &spyPosition{Board: mustBoard(t, "r3k2r/ppp2ppp/2n5/3qp3/1b1P4/2N2N2/PPP2PPP/R1BQK2R b KQkq - 0 1")}
	before := spy.FEN()
	s := whiteSearcher()
	s.Search(spy, -Infinity, Infinity, false, 3)
	require.Equal(t, spy.pushes, spy.pops)
	require.Equal(t, 3, spy.maxDepth)
	require.Equal(t, before, spy.FEN())
	require.Zero(t, spy.Ply())

	spy.pushes, spy.pops, spy.maxDepth = 0, 0, 0
	s.PickBestMove(spy, 2)
	require.Equal(t, spy.pushes, spy.pops)
	require.Equal(t, 3, spy.maxDepth)
	require.Equal(t, before, spy.FEN())
}

func TestPickBestMoveTieKeepsFirst(t *testing.T) {
	// No capture is reachable in two plies, so every move scores the same.
	b := mustBoard(t, "4k3/p7/8/8/8/8/7P/4K3 b - - 0 1")
	s := &Searcher{Evaluator: MaterialEvaluator{Perspective: chess.White}}
	moves := b.LegalMoves()
	require.Greater(t, len(moves), 1)
	require.Equal(t, moves[0].String(), s.PickBestMove(b, 1).String())
}

func TestPickBestMoveTieAmongBest(t *testing.T) {
	// Both knight captures of the hanging queen win the same material.
	b := mustBoard(t, "4k3/8/8/3q4/8/2N1N3/8/4K3 w - - 0 1")
	s := &Searcher{Evaluator: MaterialEvaluator{Perspective: chess.Black}}
	var first string
	for _, m := range b.LegalMoves() {
		if m.S2() == chess.D5 {
			first = m.String()
			break
		}
	}
	require.Equal(t, first, s.PickBestMove(b, 1).String())
}

func TestPickBestMoveWinsMaterial(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	s := &Searcher{Evaluator: MaterialEvaluator{Perspective: chess.Black}}
	require.Equal(t, "e4d5", s.PickBestMove(b, 1).String())
}

func TestPickBestMoveAvoidsMate(t *testing.T) {
	// Ra8 would lose the rook to Rxa8 mate; Rd1+ loses it to Rxd1.
	b := mustBoard(t, "3r2k1/5ppp/8/8/8/8/5PPP/R5K1 b - - 0 1")
	s := &Searcher{Evaluator: MaterialEvaluator{Perspective: chess.White}}

	blunder, err := b.ParseUCI("d8a8")
	require.NoError(t, err)
	b.Push(blunder)
	mate, err := b.ParseUCI("a1a8")
	require.NoError(t, err)
	b.Push(mate)
	require.Equal(t, chess.Checkmate, b.Method())
	b.Pop()
	b.Pop()

	for _, depth := range []int{1, 2} {
		m := s.PickBestMove(b, depth)
		require.NotNil(t, m)
		require.NotEqual(t, "d8a8", m.String())
		require.NotEqual(t, "d8d1", m.String())
	}
}

func TestPickBestMoveNoLegalMoves(t *testing.T) {
	b := mustBoard(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	s := whiteSearcher()
	require.Nil(t, s.PickBestMove(b, 2))
}

func TestPickBestMoveFromStart(t *testing.T) {
	b := engine.NewBoard()
	s := &Searcher{Evaluator: MaterialEvaluator{Perspective: chess.Black}}
	m := s.PickBestMove(b, 1)
	require.NotNil(t, m)
	_, err := b.ParseUCI(m.String())
	require.NoError(t, err)
}

func TestAlphaBetaBot(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	bot := NewAlphaBetaBot(2)
	require.Equal(t, "Alpha-Beta Bot (depth 2)", bot.Name())
	require.Equal(t, "e4d5", bot.BestMove(b).String())
	require.Zero(t, b.Ply())
	require.Nil(t, bot.BestMove(nil))
}
