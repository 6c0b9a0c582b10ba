package dom

// Coordinate is a point in page or viewport space.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CoordinateSet holds the five reference points of an element's bounding
// box plus its dimensions.
type CoordinateSet struct {
	TopLeft     Coordinate `json:"topLeft"`
	TopRight    Coordinate `json:"topRight"`
	BottomLeft  Coordinate `json:"bottomLeft"`
	BottomRight Coordinate `json:"bottomRight"`
	Center      Coordinate `json:"center"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
}

// Rect is an element's bounding rectangle as reported by the browser,
// together with the scroll offset at query time. X and Y are
// viewport-relative (getBoundingClientRect semantics).
type Rect struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`
}

// ViewportInfo is the viewport snapshot taken during enhancement.
type ViewportInfo struct {
	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// coordinateSetFromBox derives the four corners and center of a box
// anchored at (x, y).
func coordinateSetFromBox(x, y, w, h float64) *CoordinateSet {
	return &CoordinateSet{
		TopLeft:     Coordinate{X: x, Y: y},
		TopRight:    Coordinate{X: x + w, Y: y},
		BottomLeft:  Coordinate{X: x, Y: y + h},
		BottomRight: Coordinate{X: x + w, Y: y + h},
		Center:      Coordinate{X: x + w/2, Y: y + h/2},
		Width:       w,
		Height:      h,
	}
}
