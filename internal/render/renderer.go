package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/hotseat-chess/internal/rules"
)

const (
	DefaultSquareSize = 64
	boardSquares      = 8
)

// Move marks the last move on the board.
type Move struct {
	From rules.Square
	To   rules.Square
}

type Options struct {
	LastMove *Move
	// Selected is the square the player picked up; Targets are its legal
	// destinations, drawn as a dot on empty squares and a ring on captures.
	Selected *rules.Square
	Targets  []rules.Square
	// Check marks a king in check.
	Check  *rules.Square
	Header string
	Turn   string
}

// Renderer draws a board from white's side as a PNG.
type Renderer struct {
	squareSize int
}

func NewRenderer(squareSize int) *Renderer {
	if squareSize <= 0 {
		squareSize = DefaultSquareSize
	}
	return &Renderer{squareSize: squareSize}
}

type layout struct {
	square int
	origin image.Point
	width  int
	height int
}

func newLayout(square int) layout {
	side := square / 2
	top := square + square/4
	board := square * boardSquares
	return layout{
		square: square,
		origin: image.Point{X: side, Y: top},
		width:  board + side*2,
		height: board + top + side,
	}
}

func (l layout) boardRect() image.Rectangle {
	size := l.square * boardSquares
	return image.Rect(l.origin.X, l.origin.Y, l.origin.X+size, l.origin.Y+size)
}

// squareRect maps a board square to pixels; row 7 is drawn at the top.
func (l layout) squareRect(sq rules.Square) image.Rectangle {
	x := l.origin.X + sq.Col*l.square
	y := l.origin.Y + (boardSquares-1-sq.Row)*l.square
	return image.Rect(x, y, x+l.square, y+l.square)
}

func (l layout) center(sq rules.Square) image.Point {
	r := l.squareRect(sq)
	return image.Point{X: r.Min.X + l.square/2, Y: r.Min.Y + l.square/2}
}

func (r *Renderer) RenderPNG(ctx context.Context, board rules.Board, opts Options) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	l := newLayout(r.squareSize)
	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawBoardShadow(img, l.boardRect())
	drawSquares(img, l)
	if opts.Check != nil && opts.Check.Valid() {
		drawSquareOverlay(img, l, *opts.Check, checkColor)
	}
	if opts.Selected != nil && opts.Selected.Valid() {
		drawSquareOverlay(img, l, *opts.Selected, selectedColor)
	}
	moverColor, moverKnown := rules.White, false
	if mv := opts.LastMove; mv != nil && mv.From.Valid() && mv.To.Valid() {
		if p := board.At(mv.To); !p.IsEmpty() {
			moverColor, moverKnown = p.Color, true
		}
		if !moverKnown || moverColor == rules.White {
			drawSquareOverlay(img, l, mv.From, whiteMoveHighlightFill)
			drawSquareOverlay(img, l, mv.To, whiteMoveHighlightFill)
		}
	}
	if err := drawPieces(img, board, l); err != nil {
		return nil, err
	}
	if mv := opts.LastMove; mv != nil && moverKnown && moverColor == rules.Black {
		drawArrow(img, l, mv.From, mv.To, blackMoveHighlightArrow)
	}
	drawTargets(img, board, l, opts.Targets)
	drawCoordinates(img, l)
	drawHUD(img, l, opts.Header, opts.Turn)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

var (
	backgroundColor         = color.RGBA{R: 40, G: 44, B: 58, A: 255}
	lightSquare             = color.RGBA{233, 207, 163, 255}
	darkSquare              = color.RGBA{187, 136, 96, 255}
	selectedColor           = color.NRGBA{R: 120, G: 200, B: 120, A: 150}
	checkColor              = color.NRGBA{R: 230, G: 40, B: 40, A: 170}
	targetColor             = color.NRGBA{R: 20, G: 20, B: 20, A: 90}
	whiteMoveHighlightFill  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveHighlightArrow = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	hudPanelColor           = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTextPrimary          = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor        = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor        = color.NRGBA{0, 0, 0, 60}
	coordinateTextColor     = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	shadowRect := image.Rect(boardRect.Min.X+4, boardRect.Min.Y+6, boardRect.Max.X+6, boardRect.Max.Y+8)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(dst imagedraw.Image, l layout) {
	for row := 0; row < boardSquares; row++ {
		for col := 0; col < boardSquares; col++ {
			sq := rules.Sq(row, col)
			imagedraw.Draw(dst, l.squareRect(sq), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board rules.Board, l layout) error {
	for row := 0; row < boardSquares; row++ {
		for col := 0; col < boardSquares; col++ {
			sq := rules.Sq(row, col)
			piece := board.At(sq)
			if piece.IsEmpty() {
				continue
			}
			img, err := renderPieceImage(piece, l.square)
			if err != nil {
				return err
			}
			imagedraw.Draw(dst, l.squareRect(sq), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawTargets(img *image.RGBA, board rules.Board, l layout, targets []rules.Square) {
	for _, sq := range targets {
		if !sq.Valid() {
			continue
		}
		c := l.center(sq)
		if board.At(sq).IsEmpty() {
			drawDisc(img, c, l.square/6, targetColor)
			continue
		}
		drawRing(img, c, l.square/2-1, l.square/2-l.square/10, targetColor)
	}
}

func drawSquareOverlay(img *image.RGBA, l layout, sq rules.Square, clr color.Color) {
	imagedraw.Draw(img, l.squareRect(sq), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawHUD(img *image.RGBA, l layout, header, turn string) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face}

	header = strings.TrimSpace(header)
	if header == "" {
		header = "Hot-seat chess"
	}
	turn = strings.TrimSpace(turn)

	boardRect := l.boardRect()
	panelHeight := l.square * 3 / 4
	bottom := boardRect.Min.Y - l.square/4
	panel := image.Rect(boardRect.Min.X, bottom-panelHeight, boardRect.Max.X, bottom)
	drawRoundedPanel(img, panel, panelHeight/4, hudPanelColor)

	half := panel.Dx() / 2
	left := image.Rect(panel.Min.X, panel.Min.Y, panel.Min.X+half, panel.Max.Y)
	right := image.Rect(panel.Min.X+half, panel.Min.Y, panel.Max.X, panel.Max.Y)
	pad := l.square / 4
	drawCenteredString(drawer, left, truncateWithEllipsis(face, header, left.Dx()-pad*2), hudTextPrimary)
	drawCenteredString(drawer, right, truncateWithEllipsis(face, turn, right.Dx()-pad*2), hudTurnTextColor)
}

func drawCoordinates(dst imagedraw.Image, l layout) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	boardRect := l.boardRect()

	for i := 0; i < boardSquares; i++ {
		rank := rules.Sq(i, 0)
		c := l.center(rank)
		drawCenteredText(drawer, rank.String()[1:], boardRect.Min.X-l.origin.X/2, c.Y+ascent/2)

		file := rules.Sq(0, i)
		c = l.center(file)
		drawCenteredText(drawer, file.String()[:1], c.X, boardRect.Max.Y+ascent+2)
	}
}

func drawArrow(img *image.RGBA, l layout, from, to rules.Square, clr color.Color) {
	if from == to {
		return
	}
	start, end := l.center(from), l.center(to)
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	size := float64(l.square)
	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	baseLength := length - size*0.45
	if baseLength < size*0.35 {
		baseLength = length * 0.6
	}
	halfWidth := size * 0.12
	headWidth := size * 0.32
	baseX := float64(start.X) + dirX*baseLength
	baseY := float64(start.Y) + dirY*baseLength

	fillQuad(img,
		pointF{float64(start.X) - perpX*halfWidth, float64(start.Y) - perpY*halfWidth},
		pointF{float64(start.X) + perpX*halfWidth, float64(start.Y) + perpY*halfWidth},
		pointF{baseX + perpX*halfWidth, baseY + perpY*halfWidth},
		pointF{baseX - perpX*halfWidth, baseY - perpY*halfWidth},
		clr,
	)
	fillTriangleF(img,
		pointF{float64(end.X), float64(end.Y)},
		pointF{baseX - perpX*headWidth/2, baseY - perpY*headWidth/2},
		pointF{baseX + perpX*headWidth/2, baseY + perpY*headWidth/2},
		clr,
	)
}

func squareColor(sq rules.Square) color.Color {
	if (sq.Row+sq.Col)%2 == 0 {
		return darkSquare
	}
	return lightSquare
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	const ellipsis = "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
