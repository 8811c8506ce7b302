package tileview

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsText formats the committed pose for the overlay.
func statsText(s ViewportState, alpha float64) string {
	deg := math.Mod(s.Rotation*180/math.Pi, 360)
	return fmt.Sprintf("scale %.3f\npos %.0f, %.0f\nrot %.1f deg\nalpha %.2f",
		s.Scale, s.PosX, s.PosY, deg, alpha)
}

// drawOverlay prints the viewer stats and FPS in the top-left corner of dst.
func drawOverlay(dst *ebiten.Image, v *Viewer) {
	text := statsText(v.view.State(), v.anim.Get(ChannelAlpha))
	text += fmt.Sprintf("\nfps %.1f", ebiten.ActualFPS())
	ebitenutil.DebugPrintAt(dst, text, 8, 6)
}
