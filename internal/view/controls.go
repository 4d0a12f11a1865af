package view

// Control is map chrome drawn over the canvas. Pointer events on it never
// reach features underneath.
type Control struct {
	Name  string
	Label string
	X, Y  int
}

const (
	ControlZoomIn      = "zoom-in"
	ControlZoomOut     = "zoom-out"
	ControlAttribution = "attribution"
)

// Controls lays out the zoom buttons top-left and the attribution bottom-right.
func Controls(w, h int, attribution string) []Control {
	ctls := []Control{
		{Name: ControlZoomIn, Label: "[+]", X: 0, Y: 0},
		{Name: ControlZoomOut, Label: "[-]", X: 0, Y: 1},
	}
	if attribution != "" && h > 2 {
		label := " " + attribution + " "
		ctls = append(ctls, Control{Name: ControlAttribution, Label: label, X: max(0, w-len([]rune(label))), Y: h - 1})
	}
	return ctls
}

// ControlAt returns the control covering cell (x, y).
func ControlAt(w, h int, attribution string, x, y int) (Control, bool) {
	for _, c := range Controls(w, h, attribution) {
		if y == c.Y && x >= c.X && x < c.X+len([]rune(c.Label)) {
			return c, true
		}
	}
	return Control{}, false
}
