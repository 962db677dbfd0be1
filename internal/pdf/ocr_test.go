package pdf

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"
)

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.gotName = name
	f.gotArgs = args
	return f.stdout, f.stderr, f.err
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 2, 2))
}

func TestTesseract_Recognize(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("recognized text\n")}
	tess := NewTesseract(TesseractConfig{})
	tess.runner = runner

	text, err := tess.Recognize(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "recognized text\n" {
		t.Errorf("unexpected text: %q", text)
	}

	if runner.gotName != "tesseract" {
		t.Errorf("expected tesseract binary, got %q", runner.gotName)
	}
	joined := strings.Join(runner.gotArgs, " ")
	for _, want := range []string{"stdout", "-l eng", "--oem 3", "--psm 6"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, runner.gotArgs)
		}
	}
}

func TestTesseract_RecognizeFailure(t *testing.T) {
	runner := &fakeRunner{stderr: []byte("could not initialize"), err: errors.New("exit status 1")}
	tess := NewTesseract(TesseractConfig{})
	tess.runner = runner

	_, err := tess.Recognize(context.Background(), testImage())
	if err == nil {
		t.Fatal("expected error from failing runner")
	}
	if !strings.Contains(err.Error(), "could not initialize") {
		t.Errorf("error should carry stderr context: %v", err)
	}
}

func TestTesseract_ConfigDefaults(t *testing.T) {
	tess := NewTesseract(TesseractConfig{Lang: "deu", PSM: 11})

	if tess.cfg.Binary != "tesseract" || tess.cfg.OEM != 3 {
		t.Errorf("defaults not applied: %+v", tess.cfg)
	}
	if tess.cfg.Lang != "deu" || tess.cfg.PSM != 11 {
		t.Errorf("explicit values overridden: %+v", tess.cfg)
	}
}
