package shell

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
)

type ShellController struct {
	l       *readline.Instance
	session *Session
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(session *Session, historyFile string) (*ShellController, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mchess>\033[0m ",
		HistoryFile:     historyFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	return &ShellController{l: l, session: session}, nil
}

// Loop plays until the game ends or the human leaves.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	s := sc.session
	s.showMessage(helpText)
	s.showMessage("")

	for !s.Over() {
		s.Render()
		if !s.HumansTurn() {
			s.BotMove()
			continue
		}
		line, err := sc.l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			log.Info().Msg("input closed")
			return
		} else if err != nil {
			log.Error().Err(err).Msg("readline")
			return
		}
		if s.Handle(line) {
			return
		}
	}
	s.Render()
	s.showMessage(s.Result())
}
