package pane

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jask/searchbot/internal/backend"
)

const (
	imageSize  = "1024x1024"
	imageCount = 1
)

const dataURIPrefix = "data:image/png;base64,"

// GeneratedImage is one base64 PNG payload as returned by the backend.
type GeneratedImage struct {
	Base64 string
}

func (g GeneratedImage) DataURI() string { return dataURIPrefix + g.Base64 }

func (g GeneratedImage) Decode() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(g.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return raw, nil
}

// Image is the text-to-image pane.
type Image struct {
	Prompt  string
	Images  []GeneratedImage
	Err     error
	Loading bool
}

func (m Image) CanSubmit() bool {
	return !m.Loading && strings.TrimSpace(m.Prompt) != ""
}

func (m Image) Submit() (Image, *Request) {
	if !m.CanSubmit() {
		return m, nil
	}
	m.Loading = true
	m.Err = nil
	m.Images = nil
	return m, &Request{
		Call:  CallImage,
		Image: backend.ImageRequest{Prompt: strings.TrimSpace(m.Prompt), Size: imageSize, N: imageCount},
	}
}

// Clear drops rendered images without contacting the backend.
func (m Image) Clear() Image {
	m.Images = nil
	return m
}

func (m Image) Resolve(res Result) Image {
	if !m.Loading || res.Call != CallImage {
		return m
	}
	m.Loading = false
	if res.Err != nil {
		m.Err = res.Err
		return m
	}
	m.Images = make([]GeneratedImage, 0, len(res.Image.Data))
	for _, b64 := range res.Image.Data {
		m.Images = append(m.Images, GeneratedImage{Base64: b64})
	}
	return m
}
