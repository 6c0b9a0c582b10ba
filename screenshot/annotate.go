// Package screenshot draws element annotations onto page screenshots:
// a colored box per interactive element with its highlight index, so a
// vision model (or a human) can match the numbered listing to the pixels.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/anxuanzi/domtrack-go/dom"
)

// Config configures annotation rendering.
type Config struct {
	// BorderWidth is the box stroke width in pixels.
	BorderWidth float64

	// ShowLabels draws the highlight index next to each box.
	ShowLabels bool

	// Colors per element kind.
	LinkColor      color.RGBA
	ButtonColor    color.RGBA
	InputColor     color.RGBA
	DefaultColor   color.RGBA
	LabelBgColor   color.RGBA
	LabelTextColor color.RGBA
}

// DefaultConfig returns the standard annotation palette.
func DefaultConfig() Config {
	return Config{
		BorderWidth:    2,
		ShowLabels:     true,
		LinkColor:      color.RGBA{R: 76, G: 175, B: 80, A: 255},
		ButtonColor:    color.RGBA{R: 33, G: 150, B: 243, A: 255},
		InputColor:     color.RGBA{R: 255, G: 152, B: 0, A: 255},
		DefaultColor:   color.RGBA{R: 156, G: 39, B: 176, A: 255},
		LabelBgColor:   color.RGBA{R: 0, G: 0, B: 0, A: 200},
		LabelTextColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Annotate draws a box and index label for every element of the snapshot's
// selector map that carries viewport coordinates, and returns the result as
// PNG. Elements without coordinates (geometry lookup failed at capture
// time) are skipped.
func Annotate(imgData []byte, snap *dom.PageSnapshot, cfg Config) ([]byte, error) {
	if snap == nil || len(snap.SelectorMap) == 0 {
		return imgData, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("screenshot: decode image: %w", err)
	}

	dc := gg.NewContextForImage(img)

	for _, idx := range snap.SelectorMap.Indices() {
		n := snap.SelectorMap[idx]
		c := n.ViewportCoordinates
		if c == nil || c.Width <= 0 || c.Height <= 0 {
			continue
		}

		dc.SetColor(colorFor(n, cfg))
		dc.SetLineWidth(cfg.BorderWidth)
		dc.DrawRectangle(c.TopLeft.X, c.TopLeft.Y, c.Width, c.Height)
		dc.Stroke()

		if cfg.ShowLabels {
			drawLabel(dc, idx, c, cfg)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("screenshot: encode annotated image: %w", err)
	}
	return buf.Bytes(), nil
}

func colorFor(n *dom.Node, cfg Config) color.RGBA {
	switch n.Tag {
	case "a":
		return cfg.LinkColor
	case "button":
		return cfg.ButtonColor
	case "input", "textarea", "select":
		return cfg.InputColor
	}
	switch n.Attributes["role"] {
	case "link":
		return cfg.LinkColor
	case "button", "menuitem", "tab":
		return cfg.ButtonColor
	case "textbox", "combobox", "searchbox":
		return cfg.InputColor
	}
	return cfg.DefaultColor
}

// drawLabel places the index just above the box, falling back to inside
// the box at the top edge of the image.
func drawLabel(dc *gg.Context, idx int, c *dom.CoordinateSet, cfg Config) {
	label := fmt.Sprintf("%d", idx)
	w, h := dc.MeasureString(label)
	pad := 2.0

	x := c.TopLeft.X + c.Width/2 - w/2 - pad
	y := c.TopLeft.Y - h - 2*pad - 2
	if y < 0 {
		y = c.TopLeft.Y + 2
	}
	if x < 0 {
		x = 0
	}
	if max := float64(dc.Width()) - w - 2*pad; x > max {
		x = max
	}

	dc.SetColor(cfg.LabelBgColor)
	dc.DrawRectangle(x, y, w+2*pad, h+2*pad)
	dc.Fill()

	dc.SetColor(cfg.LabelTextColor)
	dc.DrawString(label, x+pad, y+pad+h)
}
