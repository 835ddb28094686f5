package compose

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
)

// renderSlate produces a deterministic placeholder image for a shot: a
// seeded two-tone field with diagonal texture, so preview renders are
// reproducible and visually distinct per shot.
func renderSlate(width, height int, seed string) ([]byte, error) {
	if width <= 0 {
		width = 1080
	}
	if height <= 0 {
		height = 1920
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := height / 10
	if stripeHeight < 48 {
		stripeHeight = 48
	}
	for y := 0; y < height; y += stripeHeight * 2 {
		bottom := y + stripeHeight
		if bottom > height {
			bottom = height
		}
		stripe := image.Rect(0, y, width, bottom)
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	step := width / 32
	if step < 16 {
		step = 16
	}
	diagonal := colorFromSeed(seed, 2)
	for x := 0; x < width+height; x += step {
		for y := 0; y < height; y++ {
			xx := x - y
			if xx < 0 || xx >= width {
				continue
			}
			img.Set(xx, y, diagonal)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode slate: %w", err)
	}
	return buf.Bytes(), nil
}

func slateSeed(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'|'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{
		R: parseHexByte(segment[0:2]),
		G: parseHexByte(segment[2:4]),
		B: parseHexByte(segment[4:6]),
		A: 255,
	}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}
