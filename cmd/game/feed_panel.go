package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/andrewedunn/battlefield-first-edition/internal/game"
)

const (
	feedPanelWidth = 320
	feedLineHeight = 14
	feedLineChars  = 42
	feedHighlight  = 3 // latest entries drawn brighter
)

// drawFeed renders the event feed as a side panel, newest at the bottom.
func drawFeed(screen *ebiten.Image, face text.Face, entries []game.FeedEntry, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	drawText(screen, face, "EVENT FEED", panelX+8, 2, textColor)
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+feedPanelWidth), 18, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 22
	for i, e := range entries {
		recent := i >= len(entries)-feedHighlight
		if recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, teamColor(e.Team), false)

		line := fmt.Sprintf("%4d %-5s %s", e.Tick, e.Label, e.Message)
		if len(line) > feedLineChars {
			line = line[:feedLineChars-1] + "~"
		}
		c := dimText
		if recent {
			c = textColor
		}
		drawText(screen, face, line, panelX+12, y, c)
		y += feedLineHeight
	}
}
