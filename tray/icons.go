//go:build darwin

package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	iconActive      []byte
	iconActiveHi    []byte
	iconSuspendedHi []byte
)

func init() {
	transparent := color.RGBA{A: 0}
	gray := color.RGBA{R: 142, G: 142, B: 147, A: 255}
	iconActive = renderIcon(22, &transparent, 22.0/8, nil, 0)
	iconActiveHi = renderIcon(44, &transparent, 44.0/8, nil, 0)
	iconSuspendedHi = renderPausedIcon(44, &gray)
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("encodePNG: " + err.Error())
	}
	return buf.Bytes()
}

func drawCircleIcon(img *image.RGBA, size int, dot *color.RGBA, dotR float64, inner *color.RGBA, innerR float64) {
	cx, cy := float64(size)/2, float64(size)/2
	r := float64(size)/2 - 1
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if inner != nil && d <= innerR {
				img.Set(x, y, inner)
			} else if dot != nil && d <= dotR {
				img.Set(x, y, dot)
			} else if d <= r {
				img.Set(x, y, color.Black)
			}
		}
	}
}

func renderIcon(size int, dot *color.RGBA, dotR float64, inner *color.RGBA, innerR float64) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	drawCircleIcon(img, size, dot, dotR, inner, innerR)
	return encodePNG(img)
}

// renderPausedIcon draws the ring with two vertical bars inside.
func renderPausedIcon(size int, bar *color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	drawCircleIcon(img, size, nil, 0, nil, 0)

	s := float64(size)
	barW, barH := s*0.12, s*0.4
	gap := s * 0.08
	top := (s - barH) / 2
	for y := range size {
		for x := range size {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			if fy < top || fy > top+barH {
				continue
			}
			left := s/2 - gap - barW
			right := s/2 + gap
			if (fx >= left && fx <= left+barW) || (fx >= right && fx <= right+barW) {
				img.Set(x, y, bar)
			}
		}
	}
	return encodePNG(img)
}
