package pjc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeResourceRGB565(t *testing.T) {
	pngBytes := encodeTestPNG(t, 4, 4, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	entry := ResourceEntry{Filename: "solid.png", Format: "Rgb565", YFrames: 1, XFrames: 1, Loop: 0}

	out, err := EncodeResource(pngBytes, entry)
	if err != nil {
		t.Fatalf("EncodeResource: %v", err)
	}
	if len(out) < 13 {
		t.Fatalf("encoded resource too short: %d bytes", len(out))
	}
	width := int(out[0])<<8 | int(out[1])
	height := int(out[2])<<8 | int(out[3])
	if width != 4 || height != 4 {
		t.Errorf("header width/height=(%d,%d), want (4,4)", width, height)
	}
	formatCode := out[12]
	if formatCode != 0 {
		t.Errorf("format code=%d, want 0 (Rgb565)", formatCode)
	}
	pixels := out[13:]
	if len(pixels) != 4*4*2 {
		t.Errorf("pixel data length=%d, want %d", len(pixels), 4*4*2)
	}
}

func TestEncodeResourceTransparentForcedMagenta(t *testing.T) {
	pngBytes := encodeTestPNG(t, 1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 0})
	entry := ResourceEntry{Filename: "ghost.png", Format: "Rgb565", YFrames: 1, XFrames: 1, Loop: 0}

	out, err := EncodeResource(pngBytes, entry)
	if err != nil {
		t.Fatalf("EncodeResource: %v", err)
	}
	pixel := uint16(out[13])<<8 | uint16(out[14])
	if pixel != transparentMagenta {
		t.Errorf("transparent pixel encoded as %#04x, want %#04x", pixel, transparentMagenta)
	}
}

func TestEncodeResourceIndexedTooManyColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 17, 1))
	for x := 0; x < 17; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x * 10), G: 0, B: 0, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	entry := ResourceEntry{Filename: "toomany.png", Format: "Indexed", YFrames: 1, XFrames: 1, Loop: 0}

	if _, err := EncodeResource(buf.Bytes(), entry); err == nil {
		t.Fatalf("expected an error for more than 16 distinct colors")
	}
}

func TestEncodeResourceUnrecognizedFormat(t *testing.T) {
	pngBytes := encodeTestPNG(t, 1, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	entry := ResourceEntry{Filename: "x.png", Format: "Paletted8", YFrames: 1, XFrames: 1, Loop: 0}
	if _, err := EncodeResource(pngBytes, entry); err == nil {
		t.Fatalf("expected an error for an unrecognized format")
	}
}
