package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
)

const (
	BadgeWidth  = 480
	BadgeHeight = 220
)

var badgeLeagueHex = map[string]string{
	"bronze":      "#cd7f32",
	"silver":      "#c0c0c0",
	"gold":        "#ffd700",
	"platinum":    "#a0d8ef",
	"diamond":     "#4fc3f7",
	"master":      "#9c27b0",
	"grandmaster": "#d81b60",
	"champion":    "#ff9800",
	"legend":      "#e040fb",
	"immortal":    "#f44336",
}

type badgeFonts struct {
	title, body font.Face
}

var (
	fontsOnce sync.Once
	fonts     badgeFonts
	fontsErr  error
)

func loadFonts() (badgeFonts, error) {
	fontsOnce.Do(func() {
		bold, err := truetype.Parse(gobold.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		regular, err := truetype.Parse(goregular.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", err)
			return
		}
		fonts = badgeFonts{
			title: truetype.NewFace(bold, &truetype.Options{Size: 30}),
			body:  truetype.NewFace(regular, &truetype.Options{Size: 16}),
		}
	})
	return fonts, fontsErr
}

// RenderBadge draws a shareable PNG card with level, league and streak.
func RenderBadge(ov game.Overview) ([]byte, error) {
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	accent := badgeLeagueHex[ov.League.Tier.Name]
	if accent == "" {
		accent = "#888888"
	}

	dc := gg.NewContext(BadgeWidth, BadgeHeight)
	dc.SetHexColor("#1e1e2e")
	dc.DrawRoundedRectangle(0, 0, BadgeWidth, BadgeHeight, 18)
	dc.Fill()

	dc.SetHexColor(accent)
	dc.DrawRectangle(0, 0, 10, BadgeHeight)
	dc.Fill()

	dc.SetFontFace(f.title)
	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("Level %d", ov.Level.Level), 32, 52)

	dc.SetFontFace(f.body)
	dc.SetHexColor(accent)
	dc.DrawStringAnchored(strings.ToUpper(ov.League.Tier.Name), BadgeWidth-28, 44, 1, 0)

	drawBar(dc, 32, 72, BadgeWidth-64, 12, ov.Level.Fraction, "#7aa2f7")
	dc.SetHexColor("#a9b1d6")
	dc.DrawString(fmt.Sprintf("%d XP total, next level at %d", ov.Level.TotalXP, ov.Level.NextLevelXP), 32, 108)

	drawBar(dc, 32, 124, BadgeWidth-64, 12, float64(ov.League.Progress)/100, accent)
	dc.SetHexColor("#a9b1d6")
	dc.DrawString(fmt.Sprintf("%d XP this month", ov.MonthlyXP), 32, 160)

	dc.SetHexColor("#ff9e64")
	dc.DrawString(fmt.Sprintf("Streak %d days (best %d)", ov.Streak, ov.LongestStreak), 32, 192)
	dc.SetHexColor("#565f89")
	dc.DrawStringAnchored(ov.Today, BadgeWidth-28, 192, 1, 0)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawBar(dc *gg.Context, x, y, w, h, frac float64, hex string) {
	frac = min(max(frac, 0), 1)
	dc.SetHexColor("#414868")
	dc.DrawRoundedRectangle(x, y, w, h, h/2)
	dc.Fill()
	if frac == 0 {
		return
	}
	dc.SetHexColor(hex)
	dc.DrawRoundedRectangle(x, y, max(w*frac, h), h, h/2)
	dc.Fill()
}
