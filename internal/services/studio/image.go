package studio

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/mcoot/nexus/internal/model"
)

// ParseImage accepts a data URL ("data:image/png;base64,...") or bare
// base64 and returns the decoded image. Bare input has its type sniffed.
func ParseImage(input string) (model.Image, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return model.Image{}, fmt.Errorf("%w: empty", model.ErrInvalidImage)
	}

	mime := ""
	payload := input
	if rest, ok := strings.CutPrefix(input, "data:"); ok {
		header, data, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return model.Image{}, fmt.Errorf("%w: malformed data url", model.ErrInvalidImage)
		}
		mime = strings.TrimSuffix(header, ";base64")
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return model.Image{}, fmt.Errorf("%w: %w", model.ErrInvalidImage, err)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	img := model.Image{MIMEType: mime, Data: data}
	if err := validateImage(img); err != nil {
		return model.Image{}, err
	}
	return img, nil
}

// DataURL renders an image as a data URL
func DataURL(img model.Image) string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func validateImage(img model.Image) error {
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: empty", model.ErrInvalidImage)
	}
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return fmt.Errorf("%w: unsupported type %q", model.ErrInvalidImage, img.MIMEType)
	}
	return nil
}
