// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Renders an analog clock offscreen with the engine graphics API and
// composites it into an Ebiten frame.
package main

import (
	"log"
	"math"
	"time"

	sciter "github.com/YindSoft/sciter-go"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	screenWidth  = 480
	screenHeight = 480
	clockSize    = 400
)

type Game struct {
	face    *sciter.Image
	texture *ebiten.Image
}

func newGame() (*Game, error) {
	face, err := sciter.NewImage(clockSize, clockSize, true)
	if err != nil {
		return nil, err
	}
	return &Game{
		face:    face,
		texture: ebiten.NewImage(clockSize, clockSize),
	}, nil
}

func (g *Game) Update() error {
	if err := g.face.Clear(sciter.RGBA(0, 0, 0, 0)); err != nil {
		return err
	}
	if err := g.face.Paint(paintClock); err != nil {
		return err
	}
	return g.face.WriteTexture(g.texture)
}

func paintClock(gfx *sciter.Graphics, width, height uint32) {
	cx := float32(width) / 2
	cy := float32(height) / 2
	r := cx - 8

	gfx.SaveState()
	defer gfx.RestoreState()

	// Dial
	gfx.LineWidth(6)
	gfx.LineColor(sciter.RGB(40, 40, 48))
	gfx.FillColor(sciter.RGBA(250, 250, 245, 255))
	gfx.Circle(cx, cy, r)

	// Hour marks
	gfx.LineWidth(3)
	for i := 0; i < 12; i++ {
		a := float64(i) * math.Pi / 6
		sin, cos := float32(math.Sin(a)), float32(math.Cos(a))
		gfx.Line(cx+sin*(r-18), cy-cos*(r-18), cx+sin*(r-6), cy-cos*(r-6))
	}

	now := time.Now()
	h := float64(now.Hour()%12) + float64(now.Minute())/60
	m := float64(now.Minute()) + float64(now.Second())/60
	s := float64(now.Second())

	hand := func(angle float64, length float32, width float32, c sciter.Color) {
		sin, cos := float32(math.Sin(angle)), float32(math.Cos(angle))
		gfx.LineWidth(width)
		gfx.LineColor(c)
		gfx.Line(cx, cy, cx+sin*length, cy-cos*length)
	}
	hand(h*math.Pi/6, r*0.5, 7, sciter.RGB(40, 40, 48))
	hand(m*math.Pi/30, r*0.75, 5, sciter.RGB(40, 40, 48))
	hand(s*math.Pi/30, r*0.85, 2, sciter.RGB(200, 40, 40))

	gfx.FillColor(sciter.RGB(40, 40, 48))
	gfx.LineWidth(0)
	gfx.Circle(cx, cy, 6)
}

func (g *Game) Draw(screen *ebiten.Image) {
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate((screenWidth-clockSize)/2, (screenHeight-clockSize)/2)
	screen.DrawImage(g.texture, opts)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	if _, err := sciter.Version(nil); err != nil {
		log.Fatalf("engine: %v", err)
	}
	g, err := newGame()
	if err != nil {
		log.Fatal(err)
	}
	defer g.face.Release()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Clock")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
