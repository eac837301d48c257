package main

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/collision-go/collision"
)

const (
	fillRune  = '█'
	smallRune = '•' // Particle smaller than a cell
)

var (
	boxStyle      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	particleStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(31, 119, 180))
	hudStyle      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// plotArea is the inner box in cells. Rows are taller than columns, so a
// circle is rasterized against cell centers rather than drawn at a fixed size.
type plotArea struct {
	w, h int
}

// cell returns the world coordinates of the center of inner cell (c, r).
func (a plotArea) cell(c, r int) (float64, float64) {
	return (float64(c) + 0.5) / float64(a.w), 1 - (float64(r)+0.5)/float64(a.h)
}

// render draws the box, the particles and a status line on the last row.
func render(screen tcell.Screen, snap collision.Snapshot, status string) {
	screen.Clear()
	width, height := screen.Size()
	area := plotArea{w: width - 2, h: height - 3}
	if area.w < 1 || area.h < 1 {
		screen.Show()
		return
	}

	drawBox(screen, area.w+2, area.h+2)
	for _, p := range snap.Particles {
		drawParticle(screen, area, p)
	}
	for i, ch := range []rune(status) {
		if i >= width {
			break
		}
		screen.SetContent(i, height-1, ch, nil, hudStyle)
	}
	screen.Show()
}

func drawBox(screen tcell.Screen, w, h int) {
	for x := 1; x < w-1; x++ {
		screen.SetContent(x, 0, '─', nil, boxStyle)
		screen.SetContent(x, h-1, '─', nil, boxStyle)
	}
	for y := 1; y < h-1; y++ {
		screen.SetContent(0, y, '│', nil, boxStyle)
		screen.SetContent(w-1, y, '│', nil, boxStyle)
	}
	screen.SetContent(0, 0, '┌', nil, boxStyle)
	screen.SetContent(w-1, 0, '┐', nil, boxStyle)
	screen.SetContent(0, h-1, '└', nil, boxStyle)
	screen.SetContent(w-1, h-1, '┘', nil, boxStyle)
}

func drawParticle(screen tcell.Screen, area plotArea, p collision.State) {
	c0 := clamp(int(math.Floor((p.X-p.Radius)*float64(area.w))), 0, area.w-1)
	c1 := clamp(int(math.Ceil((p.X+p.Radius)*float64(area.w))), 0, area.w-1)
	r0 := clamp(int(math.Floor((1-p.Y-p.Radius)*float64(area.h))), 0, area.h-1)
	r1 := clamp(int(math.Ceil((1-p.Y+p.Radius)*float64(area.h))), 0, area.h-1)

	drawn := false
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			x, y := area.cell(c, r)
			if math.Hypot(x-p.X, y-p.Y) <= p.Radius {
				screen.SetContent(c+1, r+1, fillRune, nil, particleStyle)
				drawn = true
			}
		}
	}
	if !drawn {
		c := clamp(int(p.X*float64(area.w)), 0, area.w-1)
		r := clamp(int((1-p.Y)*float64(area.h)), 0, area.h-1)
		screen.SetContent(c+1, r+1, smallRune, nil, particleStyle)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
