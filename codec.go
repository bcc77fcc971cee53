package pixellift

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/bep/imagemeta"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned for input that cannot enter any pipeline:
// undecodable bytes, a nil image, or zero/invalid dimensions. This is
// the only hard failure the package surfaces.
var ErrInvalidImage = errors.New("pixellift: invalid or undecodable image")

// DecodeImage decodes raw JPEG/PNG/GIF/WebP bytes into the normalized
// in-memory representation the pipelines operate on. EXIF orientation
// is applied before returning, so camera uploads come out upright.
func DecodeImage(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrInvalidImage
	}

	out := imaging.Clone(img)
	if o := exifOrientation(data, format); o > 1 {
		out = applyOrientation(out, o)
	}
	return out, nil
}

// metaFormats maps image.Decode format names onto imagemeta's format
// enum. GIF has no EXIF support and is deliberately absent.
var metaFormats = map[string]imagemeta.ImageFormat{
	"jpeg": imagemeta.JPEG,
	"png":  imagemeta.PNG,
	"webp": imagemeta.WebP,
}

// exifOrientation extracts the EXIF Orientation tag (1-8) from raw
// image bytes. Returns 0 when the format carries no EXIF or the tag is
// missing or unparsable; graceful degradation, never an error.
func exifOrientation(data []byte, format string) int {
	metaFormat, ok := metaFormats[format]
	if !ok {
		return 0
	}
	orientation := 0
	err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: metaFormat,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Tag == "Orientation"
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			switch v := ti.Value.(type) {
			case uint16:
				orientation = int(v)
			case int:
				orientation = v
			}
			return nil
		},
	})
	if err != nil {
		return 0
	}
	return orientation
}

// applyOrientation maps EXIF orientation values 2-8 onto the transform
// that restores the upright image.
func applyOrientation(img *image.NRGBA, orientation int) *image.NRGBA {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// EncodePNG serializes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("pixellift: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURL creates a data: URI from bytes and MIME type.
func EncodeDataURL(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// EncodeImageDataURL renders an image as a PNG data: URI, the transport
// representation returned to browser clients.
func EncodeImageDataURL(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return EncodeDataURL(data, "image/png"), nil
}
