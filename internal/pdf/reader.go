package pdf

import (
	"fmt"

	ledongthuc "github.com/ledongthuc/pdf"
)

// Source provides page-level access to one opened PDF document.
type Source interface {
	// PageCount returns the number of pages in the document.
	PageCount() int
	// PageText returns the native text layer of a page (1-based).
	// An empty string is a valid result for pages without a text layer.
	PageText(pageNum int) (string, error)
	// Close releases the underlying file.
	Close() error
}

// Reader is the default Source backed by the document's embedded text layer.
type Reader struct {
	file   closer
	reader *ledongthuc.Reader
}

type closer interface {
	Close() error
}

// Open opens a PDF file for text-layer extraction. A failure here is fatal
// to the whole ingestion: a document that cannot be read cannot be ingested.
func Open(path string) (*Reader, error) {
	f, r, err := ledongthuc.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &Reader{file: f, reader: r}, nil
}

func (r *Reader) PageCount() int {
	return r.reader.NumPage()
}

func (r *Reader) PageText(pageNum int) (string, error) {
	page := r.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d text layer: %w", pageNum, err)
	}
	return text, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}
