package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/docqa-server/internal/index"
	"github.com/bull/docqa-server/internal/ingest"
	"github.com/bull/docqa-server/internal/qa"
	"github.com/bull/docqa-server/internal/storage"
)

type fakeIngestor struct {
	result     *ingest.Result
	err        error
	path       string
	filename   string
	ocrAllowed bool
	called     bool
}

func (f *fakeIngestor) Ingest(_ context.Context, path, filename string, ocrEnabled bool) (*ingest.Result, error) {
	f.called = true
	f.path = path
	f.filename = filename
	f.ocrAllowed = ocrEnabled
	return f.result, f.err
}

type fakeAsker struct {
	answer   *qa.Answer
	question string
	topK     int
}

func (f *fakeAsker) Ask(_ context.Context, question string, topK int) *qa.Answer {
	f.question = question
	f.topK = topK
	return f.answer
}

type fakeExporter struct {
	data []byte
	err  error
}

func (f *fakeExporter) FieldSummaryXLSX(*storage.Document) ([]byte, error) {
	return f.data, f.err
}

type fakeStore struct {
	doc       *storage.Document
	docs      []*storage.Document
	getErr    error
	listErr   error
	deleteErr error
	healthErr error
	deleted   []string
}

func (f *fakeStore) GetDocument(_ context.Context, id string) (*storage.Document, error) {
	return f.doc, f.getErr
}

func (f *fakeStore) ListDocuments(context.Context) ([]*storage.Document, error) {
	return f.docs, f.listErr
}

func (f *fakeStore) DeleteDocument(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Health(context.Context) error { return f.healthErr }

type testDeps struct {
	ingestor *fakeIngestor
	asker    *fakeAsker
	exporter *fakeExporter
	store    *fakeStore
}

func newTestServer(t *testing.T, ocrEnabled bool) (*httptest.Server, *testDeps) {
	t.Helper()

	deps := &testDeps{
		ingestor: &fakeIngestor{result: &ingest.Result{
			DocumentID: "doc-1",
			Filename:   "report.pdf",
			PageCount:  2,
			ChunkCount: 3,
		}},
		asker:    &fakeAsker{answer: &qa.Answer{Answer: "42"}},
		exporter: &fakeExporter{data: []byte("xlsx-bytes")},
		store:    &fakeStore{},
	}

	srv := New(&Config{
		Ingestor:   deps.ingestor,
		Asker:      deps.asker,
		Exporter:   deps.exporter,
		Store:      deps.store,
		UploadDir:  t.TempDir(),
		OCREnabled: ocrEnabled,
	})

	mux := http.NewServeMux()
	srv.Routes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, deps
}

func multipartPDF(t *testing.T, filename, contentType string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUpload_IngestsAndResponds(t *testing.T) {
	ts, deps := newTestServer(t, true)

	body, contentType := multipartPDF(t, "report.pdf", "application/pdf", nil)
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "doc-1", out["document_id"])
	assert.Equal(t, "report.pdf", out["filename"])
	assert.Equal(t, float64(2), out["pages"])
	assert.Equal(t, true, out["ocr_enabled"])

	assert.True(t, deps.ingestor.called)
	assert.Equal(t, "report.pdf", deps.ingestor.filename)
	assert.True(t, deps.ingestor.ocrAllowed)
	assert.True(t, strings.HasSuffix(deps.ingestor.path, ".pdf"))
}

func TestUpload_RejectsNonPDF(t *testing.T) {
	ts, deps := newTestServer(t, true)

	body, contentType := multipartPDF(t, "notes.txt", "text/plain", nil)
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, deps.ingestor.called)
}

func TestUpload_UseOCRFalse(t *testing.T) {
	ts, deps := newTestServer(t, true)

	body, contentType := multipartPDF(t, "report.pdf", "application/pdf", map[string]string{"use_ocr": "false"})
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, deps.ingestor.ocrAllowed)
}

func TestUpload_ProcessFlagOverridesRequest(t *testing.T) {
	ts, deps := newTestServer(t, false)

	body, contentType := multipartPDF(t, "report.pdf", "application/pdf", map[string]string{"use_ocr": "true"})
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, deps.ingestor.ocrAllowed, "disabled process never runs OCR")
}

func TestUpload_IngestionFailure(t *testing.T) {
	ts, deps := newTestServer(t, true)
	deps.ingestor.result = nil
	deps.ingestor.err = errors.New("qdrant down")

	body, contentType := multipartPDF(t, "report.pdf", "application/pdf", nil)
	resp, err := http.Post(ts.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAsk_ReturnsAnswer(t *testing.T) {
	ts, deps := newTestServer(t, true)
	deps.asker.answer = &qa.Answer{
		Answer:       "the value is 7",
		Sources:      []index.Result{{Text: "chunk", Score: 0.8}},
		TotalSources: 1,
	}

	resp, err := http.Post(ts.URL+"/ask", "application/json",
		strings.NewReader(`{"question":"what is the value?","top_k":3}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out qa.Answer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "the value is 7", out.Answer)
	assert.Equal(t, 1, out.TotalSources)

	assert.Equal(t, "what is the value?", deps.asker.question)
	assert.Equal(t, 3, deps.asker.topK)
}

func TestAsk_RequiresQuestion(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Post(ts.URL+"/ask", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteDocument(t *testing.T) {
	ts, deps := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/documents/doc-1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"doc-1"}, deps.store.deleted)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	ts, deps := newTestServer(t, true)
	deps.store.deleteErr = storage.ErrDocumentNotFound

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/documents/nope", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportFields(t *testing.T) {
	ts, deps := newTestServer(t, true)
	deps.store.doc = &storage.Document{ID: "doc-1", Filename: "report.pdf"}

	resp, err := http.Get(ts.URL + "/documents/doc-1/fields.xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "fields.xlsx")
}

func TestExportFields_NotFound(t *testing.T) {
	ts, deps := newTestServer(t, true)
	deps.store.getErr = storage.ErrDocumentNotFound

	resp, err := http.Get(ts.URL + "/documents/nope/fields.xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListDocuments(t *testing.T) {
	ts, deps := newTestServer(t, true)
	deps.store.docs = []*storage.Document{{ID: "doc-1", Filename: "a.pdf"}}

	resp, err := http.Get(ts.URL + "/documents")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, float64(1), out["count"])
}

func TestHealth(t *testing.T) {
	ts, deps := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	deps.store.healthErr = errors.New("unreachable")
	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
