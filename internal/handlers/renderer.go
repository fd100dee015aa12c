package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"

	// Formats accepted from chat transports.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nouveaubot/nouveaubot/internal/codex"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

// ErrBadImage is returned by a Renderer that cannot decode the image.
var ErrBadImage = errors.New("image could not be decoded")

// RenderRequest carries the image and the articles chosen for it.
// Picks holds one article per subject, in subject order.
type RenderRequest struct {
	Image []byte
	Picks []codex.Article
}

// Renderer labels the subjects of an image with articles.
type Renderer interface {
	// Subjects returns how many labels the image needs. Zero means
	// nothing on the image can be labelled.
	Subjects(ctx context.Context, img []byte) (int, error)
	Render(ctx context.Context, req RenderRequest) (dispatch.Reply, error)
}

// TextRenderer answers with the article list instead of an annotated
// image. Every decodable image is treated as holding Count subjects.
type TextRenderer struct {
	Count int
}

// Subjects returns Count once the image header decodes, ErrBadImage otherwise.
func (r TextRenderer) Subjects(_ context.Context, img []byte) (int, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(img)); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadImage, err)
	}
	return max(r.Count, 0), nil
}

// Render lists the picks in natural order of article name.
func (r TextRenderer) Render(_ context.Context, req RenderRequest) (dispatch.Reply, error) {
	picks := slices.Clone(req.Picks)
	slices.SortStableFunc(picks, func(a, b codex.Article) int {
		return naturalCompare(a.Name, b.Name)
	})

	lines := make([]string, 0, len(picks))
	for _, p := range picks {
		lines = append(lines, fmt.Sprintf("Article %s. %s", p.Name, p.Description))
	}
	return dispatch.Reply{Text: strings.Join(lines, "\n")}, nil
}
