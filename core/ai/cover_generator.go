package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"moodyo/logger"
)

// coverStylePrefix is the art direction applied to every generated cover.
const coverStylePrefix = "Album cover art for a song. Cinematic, high-quality, photographic. Style hint: "

// CoverUploader persists raw image bytes and returns a public URL.
type CoverUploader interface {
	PutCover(ctx context.Context, data []byte, contentType string) (string, error)
}

// CoverArtGenerator produces cover images with soft-failure semantics: cover
// art is decorative, so every failure degrades to an explicit unavailable
// result instead of an error.
type CoverArtGenerator struct {
	provider ImageProvider
	uploader CoverUploader // optional; nil keeps data URIs inline
}

// NewCoverArtGenerator builds a generator. uploader may be nil.
func NewCoverArtGenerator(provider ImageProvider, uploader CoverUploader) *CoverArtGenerator {
	return &CoverArtGenerator{provider: provider, uploader: uploader}
}

// Generate makes a single image-generation attempt for the style hint and
// returns the image reference and true, or ("", false) when no usable image
// could be produced. It never returns an error to the caller.
func (g *CoverArtGenerator) Generate(ctx context.Context, hint string) (string, bool) {
	ref, err := g.provider.GenerateImage(ctx, coverStylePrefix+hint)
	if err != nil {
		logger.Warn("cover art generation failed", logger.String("hint", hint), logger.ErrorField(err))
		return "", false
	}
	if strings.TrimSpace(ref) == "" {
		logger.Warn("cover art generation returned empty reference", logger.String("hint", hint))
		return "", false
	}

	if g.uploader != nil && strings.HasPrefix(ref, "data:") {
		if url, err := g.upload(ctx, ref); err == nil {
			return url, true
		} else {
			logger.Warn("cover upload failed, keeping data URI", logger.ErrorField(err))
		}
	}
	return ref, true
}

// upload decodes a base64 data URI and stores it through the uploader.
func (g *CoverArtGenerator) upload(ctx context.Context, dataURI string) (string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(dataURI, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", errNotBase64DataURI
	}
	contentType := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", err
	}
	return g.uploader.PutCover(ctx, data, contentType)
}

var errNotBase64DataURI = errors.New("not a base64 data URI")
