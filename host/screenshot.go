package host

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Capturer writes the rendered frame to PNG files. Captures are queued by
// label and flushed at the end of Draw, so a capture requested during
// Update shows that tick's frame.
type Capturer struct {
	// Dir receives "<timestamp>_<label>.png" files.
	Dir string
	// Key queues a capture labeled "manual".
	Key ebiten.Key

	log   *slog.Logger
	queue []string
}

// NewCapturer creates a capturer writing to dir.
func NewCapturer(dir string, log *slog.Logger) *Capturer {
	if log == nil {
		log = slog.Default()
	}
	return &Capturer{Dir: dir, Key: ebiten.KeyF12, log: log}
}

// Queue requests a capture of the next drawn frame.
func (c *Capturer) Queue(label string) {
	c.queue = append(c.queue, label)
}

// Pending returns the number of queued captures.
func (c *Capturer) Pending() int {
	return len(c.queue)
}

// Update handles the capture key. Call once per tick.
func (c *Capturer) Update() {
	if inpututil.IsKeyJustPressed(c.Key) {
		c.Queue("manual")
	}
}

// Flush captures screen once for every queued label.
func (c *Capturer) Flush(screen *ebiten.Image) {
	if len(c.queue) == 0 {
		return
	}
	defer func() { c.queue = c.queue[:0] }()

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		c.log.Error("screenshot failed", "dir", c.Dir, "err", err)
		return
	}
	img := straightAlpha(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range c.queue {
		p := filepath.Join(c.Dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(p, img); err != nil {
			c.log.Error("screenshot failed", "label", label, "err", err)
			continue
		}
		c.log.Info("screenshot written", "path", p)
	}
}

// straightAlpha reads screen's premultiplied pixels into an NRGBA image.
func straightAlpha(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(img.Pix)
	unpremultiply(img.Pix)
	return img
}

func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := int(pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for j := 0; j < 3; j++ {
			pix[i+j] = uint8(min(int(pix[i+j])*255/a, 255))
		}
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replacing everything
// else with '_'. Empty labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
