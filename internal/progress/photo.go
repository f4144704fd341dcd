package progress

import (
	"bytes"
	"fmt"
	"net/http"

	"lifeboard/internal/domain"
)

// SniffLen is how much of a photo SniffPhoto looks at.
const SniffLen = 512

// ErrUnsupportedPhoto rejects uploads that are not a JPEG, PNG, WebP or HEIC image.
var ErrUnsupportedPhoto = fmt.Errorf("photo must be a jpeg, png, webp or heic image: %w", domain.ErrValidation)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// heicBrands are the ISO-BMFF major brands of HEIF stills and sequences.
var heicBrands = [][]byte{
	[]byte("heic"), []byte("heix"), []byte("heim"), []byte("heis"),
	[]byte("hevc"), []byte("hevx"), []byte("mif1"), []byte("msf1"),
}

// SniffPhoto reports the content type of an image from its leading bytes,
// or "" when it is not one of the accepted formats. The client's declared
// type and file name play no part.
func SniffPhoto(head []byte) string {
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	if ct := http.DetectContentType(head); photoExtensions[ct] != "" {
		return ct
	}
	// http.DetectContentType has no HEIF signature.
	if len(head) >= 12 && bytes.Equal(head[4:8], []byte("ftyp")) {
		for _, brand := range heicBrands {
			if bytes.Equal(head[8:12], brand) {
				return "image/heic"
			}
		}
	}
	return ""
}

// PhotoExtension returns the file extension stored photos of contentType get.
func PhotoExtension(contentType string) (string, bool) {
	ext, ok := photoExtensions[contentType]
	return ext, ok
}
