package pdf

import (
	"context"
	"log/slog"
	"strings"
)

// Extractor produces the best available text for single pages. The text
// layer is always attempted first; OCR runs only as a fallback for pages
// whose layer is empty, and only when enabled for the request.
type Extractor struct {
	renderer   Renderer
	recognizer Recognizer
	logger     *slog.Logger
}

// NewExtractor creates a page extractor with the given rendering and
// recognition collaborators.
func NewExtractor(renderer Renderer, recognizer Recognizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		renderer:   renderer,
		recognizer: recognizer,
		logger:     logger,
	}
}

// ExtractPage recovers the text of page pageNum (1-based):
//
//  1. Read the native text layer; a failure yields an empty layer, not an
//     error.
//  2. If ocrEnabled is false the status is ocr-skipped, regardless of the
//     layer's content.
//  3. If the layer is non-empty, OCR is unnecessary and the status is
//     text-only.
//  4. Otherwise the page is rendered and recognized; any failure yields
//     ocr-failed with empty OCR text. OCR failure never aborts the page.
//
// The combined text concatenates text layer and OCR text in that fixed
// order, separated by OCRSeparator, and is trimmed of surrounding
// whitespace. An empty combined text is a valid result.
func (e *Extractor) ExtractPage(ctx context.Context, src Source, path string, pageNum int, ocrEnabled bool) Page {
	textLayer, err := src.PageText(pageNum)
	if err != nil {
		e.logger.Warn("text layer extraction failed", "page", pageNum, "error", err)
		textLayer = ""
	}
	textLayer = strings.TrimSpace(textLayer)

	page := Page{
		Number:    pageNum,
		TextLayer: textLayer,
	}

	switch {
	case !ocrEnabled:
		page.Status = StatusOCRSkipped
	case textLayer != "":
		page.Status = StatusTextOnly
	default:
		page.OCRText, page.Status = e.runOCR(ctx, path, pageNum)
	}

	page.Combined = combine(page.TextLayer, page.OCRText)
	return page
}

// runOCR renders one page and recognizes it. Only a transient in-memory
// image exists during the call; nothing is retained afterwards.
func (e *Extractor) runOCR(ctx context.Context, path string, pageNum int) (string, Status) {
	img, err := e.renderer.RenderPage(ctx, path, pageNum)
	if err != nil {
		e.logger.Warn("page rendering failed", "page", pageNum, "error", err)
		return "", StatusOCRFailed
	}

	text, err := e.recognizer.Recognize(ctx, img)
	if err != nil {
		e.logger.Warn("ocr failed", "page", pageNum, "error", err)
		return "", StatusOCRFailed
	}

	e.logger.Debug("ocr succeeded", "page", pageNum, "chars", len(text))
	return strings.TrimSpace(text), StatusOCRSuccess
}

// combine applies the combined-text policy: text layer first, then the OCR
// text behind a separator line. The separator appears only when OCR text is
// present so that an empty page combines to an empty string.
func combine(textLayer, ocrText string) string {
	if ocrText == "" {
		return strings.TrimSpace(textLayer)
	}
	return strings.TrimSpace(textLayer + "\n\n" + OCRSeparator + "\n" + ocrText)
}
