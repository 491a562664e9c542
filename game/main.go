package main

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"
	"time"

	"chessbot/bots"
	"chessbot/config"
	"chessbot/engine"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
)

var (
	screenWidth  int
	screenHeight int
	squareSize   int
)

var (
	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
	selectedSq  = color.RGBA{130, 151, 105, 255}
)

type Game struct {
	board        *engine.Board
	squares      [3]*ebiten.Image
	selected     chess.Square
	dragging     *chess.Piece
	dragX, dragY int
	playerColor  chess.Color
	gameStarted  bool
	botThinking  bool
	boardOffsetX int
	boardOffsetY int
	startFEN     string
	bots         map[string]bots.ChessBot
	botNames     []string
	currentBot   bots.ChessBot
	mu           sync.Mutex
}

func NewGame(cfg *config.Config) (*Game, error) {
	screenWidth, screenHeight = ebiten.ScreenSizeInFullscreen()

	// leave room for the status line above the board
	boardHeight := screenHeight - 80
	squareSize = boardHeight / 8
	if screenWidth/8 < squareSize {
		squareSize = screenWidth / 8
	}

	boardWidth := squareSize * 8
	g := &Game{
		bots:         make(map[string]bots.ChessBot),
		boardOffsetX: (screenWidth - boardWidth) / 2,
		boardOffsetY: (screenHeight - boardHeight) / 2,
		startFEN:     cfg.GetString(config.ConfigFEN),
	}
	if g.startFEN != "" {
		if _, err := engine.FromFEN(g.startFEN); err != nil {
			return nil, err
		}
	}
	for _, name := range bots.Names() {
		bot, err := bots.New(name, cfg.GetInt(config.ConfigDepth))
		if err != nil {
			return nil, err
		}
		g.bots[name] = bot
		g.botNames = append(g.botNames, name)
	}
	current, ok := g.bots[cfg.GetString(config.ConfigBot)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", bots.ErrUnknownBot, cfg.GetString(config.ConfigBot))
	}
	g.currentBot = current

	for i, clr := range []color.Color{lightSquare, darkSquare, selectedSq} {
		g.squares[i] = ebiten.NewImage(squareSize, squareSize)
		g.squares[i].Fill(clr)
	}
	return g, nil
}

// squareAt maps a cursor position to a board square.
func (g *Game) squareAt(x, y int) (chess.Square, bool) {
	x -= g.boardOffsetX
	y -= g.boardOffsetY
	if x < 0 || x >= squareSize*8 || y < 0 || y >= squareSize*8 {
		return chess.NoSquare, false
	}
	file := x / squareSize
	rank := 7 - y/squareSize
	return chess.NewSquare(chess.File(file), chess.Rank(rank)), true
}

func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.gameStarted {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			btnWidth := 200
			btnHeight := 60
			btnY := screenHeight/2 + 100

			if y > btnY && y < btnY+btnHeight {
				if x > screenWidth/2-btnWidth-20 && x < screenWidth/2-20 {
					g.startGame(chess.White)
				} else if x > screenWidth/2+20 && x < screenWidth/2+20+btnWidth {
					g.startGame(chess.Black)
				}
			}
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyB) && !g.botThinking {
		g.nextBot()
	}

	if g.board.IsGameOver() {
		return nil
	}

	if g.board.Turn() == g.playerColor && !g.botThinking {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			if sq, ok := g.squareAt(x, y); ok {
				piece := g.board.Piece(sq)
				if piece != chess.NoPiece && piece.Color() == g.playerColor {
					g.selected = sq
					g.dragging = &piece
					g.dragX, g.dragY = x, y
				}
			}
		}
		if g.dragging != nil && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.dragX, g.dragY = ebiten.CursorPosition()
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.dragging != nil {
			x, y := ebiten.CursorPosition()
			if target, ok := g.squareAt(x, y); ok {
				if move := findMove(g.board, g.selected, target); move != nil {
					g.board.Push(move)
				}
			}
			g.selected = chess.NoSquare
			g.dragging = nil
		}
	}

	if !g.botThinking && g.board.Turn() != g.playerColor && !g.board.IsGameOver() {
		g.botThinking = true
		go g.makeBotMove(g.board.Clone(), g.currentBot)
	}
	return nil
}

func (g *Game) nextBot() {
	for i, name := range g.botNames {
		if g.bots[name] == g.currentBot {
			g.currentBot = g.bots[g.botNames[(i+1)%len(g.botNames)]]
			return
		}
	}
}

func (g *Game) startGame(playerColor chess.Color) {
	g.board = engine.NewBoard()
	if g.startFEN != "" {
		// validated in NewGame
		g.board, _ = engine.FromFEN(g.startFEN)
	}
	g.playerColor = playerColor
	g.selected = chess.NoSquare
	g.gameStarted = true
}

// makeBotMove searches on its own copy of the board so Draw never sees a
// half-searched position.
func (g *Game) makeBotMove(board *engine.Board, bot bots.ChessBot) {
	time.Sleep(300 * time.Millisecond)
	move := bot.BestMove(board)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.botThinking = false
	if move == nil {
		return
	}
	// the game may have been restarted meanwhile
	if g.board.Ply() != board.Ply() || g.board.FEN() != board.FEN() {
		return
	}
	log.Info().Str("bot", bot.Name()).Str("move", g.board.SAN(move)).Msg("bot moved")
	g.board.Push(move)
}

// findMove returns the legal move between two squares. Promotions always
// pick a queen.
func findMove(board *engine.Board, from, to chess.Square) *chess.Move {
	for _, m := range board.LegalMoves() {
		if m.S1() == from && m.S2() == to && (m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen) {
			return m
		}
	}
	return nil
}

func pieceLabel(p chess.Piece) string {
	letter := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return letter
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.gameStarted {
		ebitenutil.DebugPrintAt(screen, "Chess on Go", screenWidth/2-40, screenHeight/2-50)
		ebitenutil.DebugPrintAt(screen, "Choose your colour:", screenWidth/2-60, screenHeight/2)

		whiteBtn := ebiten.NewImage(200, 60)
		whiteBtn.Fill(color.RGBA{200, 200, 200, 255})
		ebitenutil.DebugPrintAt(whiteBtn, "Play white", 65, 20)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(screenWidth/2-200-20), float64(screenHeight/2+100))
		screen.DrawImage(whiteBtn, op)

		blackBtn := ebiten.NewImage(200, 60)
		blackBtn.Fill(color.RGBA{50, 50, 50, 255})
		ebitenutil.DebugPrintAt(blackBtn, "Play black", 65, 20)
		op = &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(screenWidth/2+20), float64(screenHeight/2+100))
		screen.DrawImage(blackBtn, op)
		return
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sq := chess.NewSquare(chess.File(x), chess.Rank(7-y))
			img := g.squares[(x+y)%2]
			if g.dragging != nil && sq == g.selected {
				img = g.squares[2]
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*squareSize+g.boardOffsetX), float64(y*squareSize+g.boardOffsetY))
			screen.DrawImage(img, op)

			piece := g.board.Piece(sq)
			if piece != chess.NoPiece && (g.dragging == nil || sq != g.selected) {
				ebitenutil.DebugPrintAt(screen, pieceLabel(piece),
					x*squareSize+g.boardOffsetX+squareSize/2-3,
					y*squareSize+g.boardOffsetY+squareSize/2-8)
			}
		}
	}

	if g.dragging != nil {
		ebitenutil.DebugPrintAt(screen, pieceLabel(*g.dragging), g.dragX-3, g.dragY-8)
	}

	status := "Your move"
	if g.botThinking {
		status = "Bot is thinking..."
	} else if g.board.Turn() != g.playerColor {
		status = "Bot to move"
	}
	ebitenutil.DebugPrintAt(screen, status, 20, 20)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Bot: %s (B to switch)", g.currentBot.Name()), screenWidth-260, 20)

	if outcome := g.board.Outcome(); outcome != chess.NoOutcome {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Result: %s (%s)", outcome, g.board.Method()), screenWidth/2-80, 20)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Logger = cfg.Logger(os.Stderr)
	log.Debug().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot set up game")
	}
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Chess on Go")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("game stopped")
	}
}
