package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the dot at (x, y) in dot coordinates. The canvas size in
// dots is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Frame maps world coordinates onto a canvas. The scale is uniform in
// both axes so circles stay round, and the world y axis points up.
// Braille dots are close to square in common terminal fonts, which is
// what makes the uniform scale work.
type Frame struct {
	canvas       *Canvas
	scale        float64
	midX, midY   float64
	dotW, dotH   int
}

// NewFrame fits the world rectangle [minX,maxX] x [minY,maxY] into the
// canvas with a small margin, centered.
func NewFrame(c *Canvas, minX, maxX, minY, maxY float64) *Frame {
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	dotW := c.Width * 2
	dotH := c.Height * 4
	scale := math.Min(float64(dotW)/(spanX*1.1), float64(dotH)/(spanY*1.1))

	return &Frame{
		canvas: c,
		scale:  scale,
		midX:   (minX + maxX) / 2,
		midY:   (minY + maxY) / 2,
		dotW:   dotW,
		dotH:   dotH,
	}
}

// Dot converts a world point to dot coordinates.
func (f *Frame) Dot(wx, wy float64) (int, int) {
	x := f.dotW/2 + int(math.Round((wx-f.midX)*f.scale))
	y := f.dotH/2 - int(math.Round((wy-f.midY)*f.scale))
	return x, y
}

func (f *Frame) Plot(wx, wy float64) {
	x, y := f.Dot(wx, wy)
	f.canvas.Set(x, y)
}

func (f *Frame) Line(x0, y0, x1, y1 float64) {
	ax, ay := f.Dot(x0, y0)
	bx, by := f.Dot(x1, y1)
	f.canvas.DrawLine(ax, ay, bx, by)
}

// Mark draws a 3x3 blob, used for collision points and the particle.
func (f *Frame) Mark(wx, wy float64) {
	x, y := f.Dot(wx, wy)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			f.canvas.Set(x+dx, y+dy)
		}
	}
}
