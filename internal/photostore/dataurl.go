package photostore

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned when a photo payload is empty, not valid
// base64 or not a decodable image.
var ErrInvalidImage = errors.New("invalid image")

// DecodedPhoto is a photo payload ready for Save.
type DecodedPhoto struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// DecodeDataURL decodes a browser-captured photo. Accepts either a full
// data URL ("data:image/jpeg;base64,...") or bare base64. The declared
// media type is ignored; the format is sniffed from the bytes.
func DecodeDataURL(s string) (*DecodedPhoto, error) {
	payload := strings.TrimSpace(s)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	if len(payload) >= 5 && strings.EqualFold(payload[:5], "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		header := strings.ToLower(payload[5:comma])
		if !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: data URL is not base64 encoded", ErrInvalidImage)
		}
		payload = payload[comma+1:]
	}

	// form-encoded posts turn '+' into spaces
	payload = strings.ReplaceAll(payload, " ", "+")
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return &DecodedPhoto{
		Data:        data,
		ContentType: "image/" + format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
