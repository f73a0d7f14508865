// Package position adapts github.com/notnil/chess to the narrow surface
// the search core consumes: legal move generation, make/unmake with
// perfect undo, piece bitboards, and game-state detection. Everything
// about chess rules themselves — legality, check detection, repetition,
// FEN parsing — is delegated to notnil/chess; this package only
// translates between its types and the ordinal conventions the search
// core was specified against.
package position

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Color is the side to move.
type Color uint8

const (
	White Color = iota
	Black
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType is ordered pawn=0 .. king=5, the ordering §4.1/§4.3 of the
// search spec fixes for material/PST/MVV-LVA tables. This is
// deliberately NOT notnil/chess's own PieceType ordinal order.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// Piece is a (type, color) pair.
type Piece struct {
	Type  PieceType
	Color Color
}

// Square is a 0..63 board index, A1=0 .. H8=63, matching notnil/chess.
type Square int8

// NoSquare is the sentinel square used by the zero-value Move.
const NoSquare Square = -1

// File returns 0 (a-file) .. 7 (h-file).
func (s Square) File() int { return int(s) & 7 }

// Rank returns 0 (rank 1) .. 7 (rank 8).
func (s Square) Rank() int { return int(s) >> 3 }

// FlipVertical mirrors the square across the center ranks (A1<->A8),
// used so a single White-oriented PST serves Black too.
func (s Square) FlipVertical() Square { return Square(int(s) ^ 56) }

func (s Square) String() string {
	return string(rune('a'+s.File())) + string(rune('1'+s.Rank()))
}

// Bitboard is a 64-bit occupancy set, one bit per square.
type Bitboard uint64

// HasSquare reports whether sq is set.
func (b Bitboard) HasSquare(sq Square) bool { return b&(1<<uint(sq)) != 0 }

// Popcount returns the number of set bits.
func (b Bitboard) Popcount() int {
	n := 0
	for b != 0 {
		b &= b - 1
		n++
	}
	return n
}

func (b Bitboard) set(sq Square) Bitboard { return b | (1 << uint(sq)) }

// GameState is the terminal-or-not classification the rollout and
// controller branch on.
type GameState uint8

const (
	InProgress GameState = iota
	Checkmate
	Stalemate
	ThreefoldRepetition
	FiftyMoves
)

// Move is an opaque (from, to, promotion/en-passant) value with a
// human-readable UCI form. Equality is defined over (from, to, promo,
// en-passant).
type Move struct {
	from, to  Square
	promo     PieceType
	enPassant bool
	uci       string
}

// From returns the origin square.
func (m Move) From() Square { return m.from }

// To returns the destination square.
func (m Move) To() Square { return m.to }

// IsEnPassant reports whether this move is an en-passant capture.
func (m Move) IsEnPassant() bool { return m.enPassant }

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType { return m.promo }

func (m Move) String() string { return m.uci }

// Equal reports whether two moves denote the same from/to/promo/ep.
func (m Move) Equal(o Move) bool {
	return m.from == o.from && m.to == o.to && m.promo == o.promo && m.enPassant == o.enPassant
}

// NullMove is returned when no move is available (e.g. stalemate at
// the root); its UCI form is "0000" per spec.md §7.
var NullMove = Move{from: NoSquare, to: NoSquare, promo: NoPieceType, uci: "0000"}

// Position is a mutable chess position with perfect-undo make/unmake.
// It owns a notnil/chess.Game and a stack of prior snapshots; MakeMove
// pushes a snapshot before mutating, UnmakeMove restores the top of the
// stack. This mirrors the history+pointer scheme the teacher's
// game.Chess wrapper uses, specialized to a single mutable cursor
// instead of a navigable history.
type Position struct {
	game  *chess.Game
	stack []*chess.Game
}

// New creates a position from a FEN string, or the standard starting
// position when fen is "" or "startpos".
func New(fen string) (*Position, error) {
	if fen == "" || fen == "startpos" {
		return &Position{game: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}, nil
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(err, "parse fen %q", fen)
	}
	return &Position{game: chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))}, nil
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	if p.game.Position().Turn() == chess.White {
		return White
	}
	return Black
}

func toChessColor(c Color) chess.Color {
	if c == White {
		return chess.White
	}
	return chess.Black
}

func fromChessPieceType(pt chess.PieceType) PieceType {
	switch pt {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	default:
		return NoPieceType
	}
}

func toChessPieceType(pt PieceType) chess.PieceType {
	switch pt {
	case Pawn:
		return chess.Pawn
	case Knight:
		return chess.Knight
	case Bishop:
		return chess.Bishop
	case Rook:
		return chess.Rook
	case Queen:
		return chess.Queen
	case King:
		return chess.King
	default:
		return chess.NoPieceType
	}
}

// PieceOn returns the piece occupying sq, if any.
func (p *Position) PieceOn(sq Square) (Piece, bool) {
	cp := p.game.Position().Board().Piece(chess.Square(sq))
	if cp == chess.NoPiece {
		return Piece{}, false
	}
	color := White
	if cp.Color() == chess.Black {
		color = Black
	}
	return Piece{Type: fromChessPieceType(cp.Type()), Color: color}, true
}

// PieceTypeBB returns the bitboard of squares occupied by pieces of the
// given type and color.
func (p *Position) PieceTypeBB(pt PieceType, c Color) Bitboard {
	board := p.game.Position().Board()
	want := toChessPieceType(pt)
	wantColor := toChessColor(c)
	var bb Bitboard
	for sq := chess.Square(0); sq < 64; sq++ {
		cp := board.Piece(sq)
		if cp == chess.NoPiece {
			continue
		}
		if cp.Type() == want && cp.Color() == wantColor {
			bb = bb.set(Square(sq))
		}
	}
	return bb
}

// OccupancyBB returns the bitboard of all occupied squares.
func (p *Position) OccupancyBB() Bitboard {
	board := p.game.Position().Board()
	var bb Bitboard
	for sq := chess.Square(0); sq < 64; sq++ {
		if board.Piece(sq) != chess.NoPiece {
			bb = bb.set(Square(sq))
		}
	}
	return bb
}

func fromChessMove(m *chess.Move) Move {
	promo := NoPieceType
	if m.Promo() != chess.NoPieceType {
		promo = fromChessPieceType(m.Promo())
	}
	return Move{
		from:      Square(m.S1()),
		to:        Square(m.S2()),
		promo:     promo,
		enPassant: m.HasTag(chess.EnPassant),
		uci:       m.String(),
	}
}

// LegalMoves returns the ordered sequence of legal moves.
func (p *Position) LegalMoves() []Move {
	valid := p.game.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = fromChessMove(m)
	}
	return moves
}

func (p *Position) findChessMove(m Move) (*chess.Move, bool) {
	for _, cm := range p.game.ValidMoves() {
		if fromChessMove(cm).Equal(m) {
			return cm, true
		}
	}
	return nil, false
}

// IsLegalMove reports whether m is legal in the current position.
func (p *Position) IsLegalMove(m Move) bool {
	_, ok := p.findChessMove(m)
	return ok
}

// IsCapture reports whether m captures a piece, including en passant.
func (p *Position) IsCapture(m Move) bool {
	if m.enPassant {
		return true
	}
	cm, ok := p.findChessMove(m)
	if !ok {
		return false
	}
	return cm.HasTag(chess.Capture)
}

// MakeMove plays m, pushing a snapshot so UnmakeMove can restore
// perfect prior state (including the position hash).
func (p *Position) MakeMove(m Move) error {
	cm, ok := p.findChessMove(m)
	if !ok {
		return errors.Errorf("illegal move %s", m)
	}
	p.stack = append(p.stack, p.game.Clone())
	if err := p.game.Move(cm); err != nil {
		p.stack = p.stack[:len(p.stack)-1]
		return errors.Wrapf(err, "make move %s", m)
	}
	return nil
}

// UnmakeMove restores the position to what it was before the most
// recent MakeMove. Calling it with an empty stack is a programming
// error (spec.md §7: invariant violations are undefined, not errors).
func (p *Position) UnmakeMove() {
	n := len(p.stack)
	if n == 0 {
		panic("position: unmake with no prior make")
	}
	p.game = p.stack[n-1]
	p.stack = p.stack[:n-1]
}

// InCheck reports whether the side to move is in check, derived from
// the Check tag notnil/chess attaches to the move that produced the
// current position. A position with no moves played, including one
// loaded from a FEN where the side to move is in check, reports false.
func (p *Position) InCheck() bool {
	moves := p.game.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

// Halfmoves returns the halfmove clock (plies since the last capture
// or pawn move), read from the FEN's halfmove field.
func (p *Position) Halfmoves() int {
	fields := strings.Fields(p.game.Position().String())
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return n
}

// IsRepeat reports whether the current position's hash has occurred at
// least k times among the positions make/unmake has walked through,
// including the current one.
func (p *Position) IsRepeat(k int) bool {
	target := p.Hash()
	count := 1
	for _, snap := range p.stack {
		if hashOf(snap) == target {
			count++
		}
	}
	return count >= k
}

func hashOf(g *chess.Game) uint64 {
	h := g.Position().Hash()
	var v uint64
	for i := 0; i < 8 && i < len(h); i++ {
		v |= uint64(h[i]) << (8 * uint(i))
	}
	return v
}

// Hash returns an opaque value equal for equal positions (equality
// only; no ordering is implied).
func (p *Position) Hash() uint64 { return hashOf(p.game) }

// GameState classifies the current position as spec.md §3 requires.
func (p *Position) GameState() GameState {
	if p.game.Outcome() == chess.NoOutcome {
		return InProgress
	}
	switch p.game.Method() {
	case chess.Checkmate:
		return Checkmate
	case chess.ThreefoldRepetition:
		return ThreefoldRepetition
	case chess.FivefoldRepetition:
		return ThreefoldRepetition
	case chess.FiftyMoveRule:
		return FiftyMoves
	case chess.SeventyFiveMoveRule:
		return FiftyMoves
	default:
		// Stalemate and any other drawing method (insufficient
		// material, draw offer) are scored identically to stalemate
		// by the rollout (spec.md §4.6), so collapsing them here is
		// lossless for every consumer in this core.
		return Stalemate
	}
}

// Display prints the board to stdout; debug-only per spec.md §6.
func (p *Position) Display() {
	fmt.Println(p.game.Position().Board().Draw())
}

// FEN returns the current position's FEN string.
func (p *Position) FEN() string { return p.game.Position().String() }

// Clone returns a deep, independent copy of the position including its
// unmake history.
func (p *Position) Clone() *Position {
	stack := make([]*chess.Game, len(p.stack))
	for i, g := range p.stack {
		stack[i] = g.Clone()
	}
	return &Position{game: p.game.Clone(), stack: stack}
}
