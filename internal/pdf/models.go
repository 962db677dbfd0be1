// Package pdf recovers text from PDF pages using a text-layer-first,
// OCR-fallback extraction policy.
package pdf

// Status records how a page's text was recovered.
type Status string

const (
	// StatusTextOnly means the native text layer was used and OCR was not
	// attempted because the layer was non-empty.
	StatusTextOnly Status = "text-only"
	// StatusOCRSuccess means the page was rendered and recognized.
	StatusOCRSuccess Status = "ocr-success"
	// StatusOCRFailed means rendering or recognition failed; the page keeps
	// whatever text layer it had.
	StatusOCRFailed Status = "ocr-failed"
	// StatusOCRSkipped means OCR was disabled for the request.
	StatusOCRSkipped Status = "ocr-skipped"
)

// Page is the extraction result for one page. Pages are created once and
// never mutated; their order within a document matches physical page order.
type Page struct {
	Number    int    // 1-based ordinal
	TextLayer string // native text layer, possibly empty
	OCRText   string // recognized text, possibly empty
	Status    Status
	Combined  string // combined-text policy output, possibly empty
}

// OCRSeparator marks the boundary between text-layer and OCR text in a
// page's combined output.
const OCRSeparator = "----- OCR TEXT -----"
