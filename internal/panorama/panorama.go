// Package panorama is a small equirectangular panorama viewer drawn with
// half blocks.
package panorama

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultSceneID = "firstScene"
	DefaultImage   = "public/pano.jpg"

	DefaultHFov = 100.0
	MinHFov     = 50.0
	MaxHFov     = 120.0

	// DefaultAutoRotate is in degrees per second; negative turns left.
	DefaultAutoRotate = -2.0
	DefaultIdleDelay  = 3 * time.Second
)

type Config struct {
	SceneID     string
	ImageSource string
	Title       string
	Description string
	// AutoRotate is the idle rotation speed in degrees per second, 0 disables it.
	AutoRotate float64
	IdleDelay  time.Duration

	Yaw, Pitch, HFov float64
}

func DefaultConfig() Config {
	return Config{
		SceneID:     DefaultSceneID,
		ImageSource: DefaultImage,
		Title:       "Panorama",
		Description: "Street level view",
		AutoRotate:  DefaultAutoRotate,
		IdleDelay:   DefaultIdleDelay,
		HFov:        DefaultHFov,
	}
}

// Load reads a jpeg, png or webp panorama.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open panorama: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode panorama %s: %w", path, err)
	}
	return img, nil
}

// Viewer holds the view orientation over one scene.
type Viewer struct {
	cfg Config
	img image.Image
	err error

	yaw, pitch, hfov float64
	// aspect is the last rendered height over width, used for the pitch limit.
	aspect    float64
	lastInput time.Time
}

func New(cfg Config, now time.Time) *Viewer {
	v := &Viewer{cfg: cfg, aspect: 0.5}
	v.Reset(now)
	return v
}

func (v *Viewer) Config() Config { return v.cfg }

// SetImage installs a load result. A nil image with an error keeps the
// viewer in its unavailable state.
func (v *Viewer) SetImage(img image.Image, err error) {
	v.img, v.err = img, err
}

func (v *Viewer) Loaded() bool { return v.img != nil }
func (v *Viewer) Err() error   { return v.err }

// Reset restores the configured yaw, pitch and field of view.
func (v *Viewer) Reset(now time.Time) {
	v.hfov = clamp(orDefault(v.cfg.HFov, DefaultHFov), MinHFov, MaxHFov)
	v.yaw = wrapYaw(v.cfg.Yaw)
	v.pitch = v.clampPitch(v.cfg.Pitch)
	v.lastInput = now
}

// Look turns the view by the given degrees.
func (v *Viewer) Look(dyaw, dpitch float64, now time.Time) {
	v.yaw = wrapYaw(v.yaw + dyaw)
	v.pitch = v.clampPitch(v.pitch + dpitch)
	v.lastInput = now
}

// Zoom changes the horizontal field of view; negative zooms in.
func (v *Viewer) Zoom(dfov float64, now time.Time) {
	v.hfov = clamp(v.hfov+dfov, MinHFov, MaxHFov)
	v.pitch = v.clampPitch(v.pitch)
	v.lastInput = now
}

// Tick advances auto-rotation and reports whether the view moved.
func (v *Viewer) Tick(now time.Time, dt time.Duration) bool {
	if v.cfg.AutoRotate == 0 || now.Sub(v.lastInput) < v.cfg.IdleDelay {
		return false
	}
	v.yaw = wrapYaw(v.yaw + v.cfg.AutoRotate*dt.Seconds())
	return true
}

func (v *Viewer) Orientation() (yaw, pitch, hfov float64) {
	return v.yaw, v.pitch, v.hfov
}

func (v *Viewer) vfov() float64 {
	return math.Min(180, v.hfov*v.aspect)
}

func (v *Viewer) clampPitch(p float64) float64 {
	limit := math.Max(0, 90-v.vfov()/2)
	return clamp(p, -limit, limit)
}

// Frame returns the current view as a w×h image.
func (v *Viewer) Frame(w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if v.img == nil || w <= 0 || h <= 0 {
		return out
	}
	v.aspect = float64(h) / float64(w)
	v.pitch = v.clampPitch(v.pitch)

	b := v.img.Bounds()
	W, H := float64(b.Dx()), float64(b.Dy())
	cw := max(1, int(math.Round(v.hfov/360*W)))
	ch := max(1, int(math.Round(v.vfov()/180*H)))
	x0 := int(math.Round((v.yaw+180)/360*W)) - cw/2
	y0 := int(math.Round((90-v.pitch)/180*H)) - ch/2
	y0 = min(max(y0, 0), max(0, b.Dy()-ch))

	crop := image.NewRGBA(image.Rect(0, 0, cw, ch))
	// copy columns in at most two pieces when the view crosses the seam
	x0 = ((x0 % b.Dx()) + b.Dx()) % b.Dx()
	first := min(cw, b.Dx()-x0)
	draw.Draw(crop, image.Rect(0, 0, first, ch), v.img, image.Pt(b.Min.X+x0, b.Min.Y+y0), draw.Src)
	if first < cw {
		draw.Draw(crop, image.Rect(first, 0, cw, ch), v.img, image.Pt(b.Min.X, b.Min.Y+y0), draw.Src)
	}
	draw.ApproxBiLinear.Scale(out, out.Bounds(), crop, crop.Bounds(), draw.Src, nil)
	return out
}

// Render draws the view in w×h cells, two image rows per cell.
func (v *Viewer) Render(w, h int) string {
	if v.img == nil {
		msg := "Loading panorama..."
		if v.err != nil {
			msg = "Panorama unavailable: " + v.err.Error()
		}
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
	}
	frame := v.Frame(w, h*2)
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			top := frame.RGBAAt(x, 2*y)
			bottom := frame.RGBAAt(x, 2*y+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top.R, top.G, top.B))).
				Background(lipgloss.Color(hex(bottom.R, bottom.G, bottom.B))).
				Render("▀"))
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func wrapYaw(y float64) float64 {
	y = math.Mod(y+180, 360)
	if y < 0 {
		y += 360
	}
	return y - 180
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func orDefault(v, d float64) float64 {
	if v == 0 {
		return d
	}
	return v
}
