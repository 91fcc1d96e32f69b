package preview

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the preview path of a content.
type Kind int

const (
	KindText Kind = iota
	KindImage
	// KindOtherImage is an image format that cannot be decoded.
	KindOtherImage
)

var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

var decodableImages = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// Classify sniffs data and looks at the extension of name. Everything that
// is not an image goes down the text path, where decoding decides.
func Classify(name string, data []byte) (Kind, string) {
	mime := mimetype.Detect(data)
	for m := mime; m != nil; m = m.Parent() {
		if decodableImages[m.String()] {
			return KindImage, m.String()
		}
	}
	if t, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return KindImage, t
	}
	if strings.HasPrefix(mime.String(), "image/") && !mime.Is("image/svg+xml") {
		return KindOtherImage, mime.String()
	}
	return KindText, mime.String()
}
