package main

import (
	"fmt"
	"os"
	"path/filepath"

	"chessbot/bots"
	"chessbot/config"
	"chessbot/engine"
	"chessbot/shell"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log.Logger = cfg.Logger(os.Stderr)
	log.Debug().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	board := engine.NewBoard()
	if fen := cfg.GetString(config.ConfigFEN); fen != "" {
		var err error
		board, err = engine.FromFEN(fen)
		if err != nil {
			log.Fatal().Err(err).Msg("bad start position")
		}
	}

	bot, err := bots.New(cfg.GetString(config.ConfigBot), cfg.GetInt(config.ConfigDepth))
	if err != nil {
		log.Fatal().Err(err).Strs("available", bots.Names()).Msg("cannot create bot")
	}
	log.Info().Str("bot", bot.Name()).Str("human", cfg.GetString(config.ConfigHuman)).Msg("starting game")

	human := chess.Black
	if cfg.HumanIsWhite() {
		human = chess.White
	}
	session := shell.NewSession(board, bot, human, cfg.GetBool(config.ConfigUnicode), os.Stdout)

	sc, err := shell.NewShellController(session, filepath.Join(os.TempDir(), "chessbot_history"))
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start shell")
	}
	sc.Loop()
}
