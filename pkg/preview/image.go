package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"slices"
	"strings"

	"github.com/BourgeoisBear/rasterm"
	"github.com/mattn/go-sixel"
	"golang.org/x/image/draw"
)

// Image protocols, in order of preference.
const (
	ProtocolKitty  = "kitty"
	ProtocolITerm2 = "iterm2"
	ProtocolSixel  = "sixel"
)

// Protocols lists every supported protocol in order of preference.
var Protocols = []string{ProtocolKitty, ProtocolITerm2, ProtocolSixel}

// DecodeImage decodes a png, jpeg or gif image.
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	return img, format, nil
}

// DetectProtocols returns the image protocols the terminal is known to
// support, in order of preference. Nothing is supported off a terminal.
func DetectProtocols(getenv func(string) string, tty bool) []string {
	if !tty {
		return nil
	}
	term := strings.ToLower(getenv("TERM"))
	program := getenv("TERM_PROGRAM")

	var found []string
	if getenv("KITTY_WINDOW_ID") != "" || strings.Contains(term, "kitty") ||
		strings.Contains(term, "ghostty") || program == "WezTerm" || program == "ghostty" {
		found = append(found, ProtocolKitty)
	}
	if program == "iTerm.app" || program == "WezTerm" || getenv("LC_TERMINAL") == "iTerm2" {
		found = append(found, ProtocolITerm2)
	}
	if strings.Contains(term, "sixel") || strings.HasPrefix(term, "foot") ||
		strings.HasPrefix(term, "mlterm") || program == "WezTerm" {
		found = append(found, ProtocolSixel)
	}
	return found
}

// ChooseProtocol returns the preferred protocol among supported.
func ChooseProtocol(supported []string) (string, bool) {
	for _, p := range Protocols {
		if slices.Contains(supported, p) {
			return p, true
		}
	}
	return "", false
}

// EncodeImage renders img as the escape sequence of protocol, scaled down to
// fit a box of cols x rows terminal cells of cellWidth x cellHeight pixels.
func EncodeImage(img image.Image, protocol string, cols, rows, cellWidth, cellHeight int) (string, error) {
	fitted := fit(img, cols*cellWidth, rows*cellHeight)
	var buf bytes.Buffer
	var err error
	switch protocol {
	case ProtocolKitty:
		err = rasterm.KittyWriteImage(&buf, fitted, rasterm.KittyImgOpts{})
	case ProtocolITerm2:
		err = rasterm.ItermWriteImage(&buf, fitted)
	case ProtocolSixel:
		err = sixel.NewEncoder(&buf).Encode(fitted)
	default:
		return "", fmt.Errorf("unknown image protocol %q", protocol)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", protocol, err)
	}
	return buf.String(), nil
}

// fit scales img down so that it fits in maxW x maxH pixels, keeping its
// aspect ratio.
func fit(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return img
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw, nh := max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
