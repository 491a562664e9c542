package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"chessbot/bots"
	"chessbot/engine"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const movePrompt = "Enter your move in UCI format (e.g e2e4 which means take piece e2 to e4): "

const helpText = `Enter your move in UCI format (e.g e2e4 which means take piece e2 to e4).
Other commands:
  moves        list the legal moves
  undo         take back your last move and the computer's reply
  fen          print the position as FEN
  help         show this message
  quit, exit   leave the game`

type playedMove struct {
	uci     string
	byHuman bool
}

// Session is one game between a human and a bot. It writes everything it
// has to say to out and never reads input itself.
type Session struct {
	board   *engine.Board
	bot     bots.ChessBot
	human   chess.Color
	unicode bool
	out     io.Writer
	history []playedMove
}

func NewSession(board *engine.Board, bot bots.ChessBot, human chess.Color, unicode bool, out io.Writer) *Session {
	return &Session{
		board:   board,
		bot:     bot,
		human:   human,
		unicode: unicode,
		out:     out,
	}
}

func (s *Session) showMessage(msg string) {
	io.WriteString(s.out, msg)
	io.WriteString(s.out, "\n")
}

func (s *Session) Board() *engine.Board {
	return s.board
}

func (s *Session) Over() bool {
	return s.board.IsGameOver()
}

func (s *Session) HumansTurn() bool {
	return s.board.Turn() == s.human
}

func (s *Session) movesBy(human bool) []string {
	return lo.FilterMap(s.history, func(m playedMove, _ int) (string, bool) {
		return m.uci, m.byHuman == human
	})
}

// Render prints the board followed by both move lists, and asks for a move
// when the human is on turn.
func (s *Session) Render() {
	s.showMessage(s.drawBoard())
	s.showMessage("")
	s.showMessage(fmt.Sprintf("Players move:  %v", s.movesBy(true)))
	s.showMessage(fmt.Sprintf("Bots move:  %v", s.movesBy(false)))
	s.showMessage("")
	if !s.Over() && s.HumansTurn() {
		s.showMessage(movePrompt)
	}
}

func (s *Session) drawBoard() string {
	if s.unicode {
		return s.board.Draw()
	}
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		fmt.Fprintf(&sb, "%d ", r+1)
		for f := 0; f < 8; f++ {
			sb.WriteString(asciiPiece(s.board.Piece(chess.NewSquare(chess.File(f), chess.Rank(r)))))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

func asciiPiece(p chess.Piece) string {
	if p == chess.NoPiece {
		return "."
	}
	letter := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return letter
}

// Handle acts on one line typed by the human. It reports true when the
// human asked to leave.
func (s *Session) Handle(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		s.showMessage(helpText)
		return false
	case "fen":
		s.showMessage(s.board.FEN())
		return false
	case "moves":
		s.showMessage(strings.Join(lo.Map(s.board.LegalMoves(), func(m *chess.Move, _ int) string {
			return m.String()
		}), " "))
		return false
	case "undo":
		s.undo()
		return false
	}

	if !s.HumansTurn() || s.Over() {
		s.showMessage("It is not your turn.")
		return false
	}
	m, err := s.board.ParseUCI(line)
	switch {
	case errors.Is(err, engine.ErrBadNotation):
		s.showMessage("Invalid move try again")
		return false
	case err != nil:
		s.showMessage("Invalid move. Please try again.")
		return false
	}
	s.play(m, true)
	return false
}

// BotMove lets the bot answer. It does nothing when the game is over or
// it is the human's turn.
func (s *Session) BotMove() {
	if s.Over() || s.HumansTurn() {
		return
	}
	s.showMessage("Computer is thinking....")
	m := s.bot.BestMove(s.board)
	if m == nil {
		log.Error().Str("fen", s.board.FEN()).Msg("bot-found-no-move")
		return
	}
	s.play(m, false)
	s.showMessage(fmt.Sprintf("Computer played it's move  %s", m))
	s.showMessage("")
}

func (s *Session) play(m *chess.Move, byHuman bool) {
	log.Debug().Str("move", m.String()).Str("san", s.board.SAN(m)).Bool("human", byHuman).Msg("played")
	s.board.Push(m)
	s.history = append(s.history, playedMove{uci: m.String(), byHuman: byHuman})
}

// undo takes back moves until the last human move is gone.
func (s *Session) undo() {
	if !lo.ContainsBy(s.history, func(m playedMove) bool { return m.byHuman }) {
		s.showMessage("Nothing to take back.")
		return
	}
	for len(s.history) > 0 {
		last := s.history[len(s.history)-1]
		s.board.Pop()
		s.history = s.history[:len(s.history)-1]
		if last.byHuman {
			return
		}
	}
}

// Result describes how the game ended.
func (s *Session) Result() string {
	switch s.board.Method() {
	case chess.Checkmate:
		if s.board.Turn() == chess.White {
			return "Black wins due to checkmate!!"
		}
		return "White wins due to checkmate"
	case chess.Stalemate:
		return "Match is a draw due to stalemate"
	default:
		return "Game over."
	}
}
