package pdf

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// Renderer rasterizes a single PDF page to an in-memory image for OCR.
type Renderer interface {
	RenderPage(ctx context.Context, path string, pageNum int) (image.Image, error)
}

// FitzRenderer renders pages with MuPDF.
type FitzRenderer struct{}

func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{}
}

// RenderPage opens the document, renders one page (1-based) and closes it
// again. No per-document state is retained between calls.
func (r *FitzRenderer) RenderPage(ctx context.Context, path string, pageNum int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf for rendering: %w", err)
	}
	defer doc.Close()

	if pageNum < 1 || pageNum > doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (1-%d)", pageNum, doc.NumPage())
	}

	img, err := doc.Image(pageNum - 1)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", pageNum, err)
	}
	return img, nil
}
