package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Recognizer converts a rendered page image to text. Implementations may
// fail; callers treat failures as a degraded page, never a fatal error.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Runner lets tests stub the external OCR command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// TesseractConfig configures the tesseract invocation. Language and page
// segmentation mode are caller-supplied, not part of the extraction policy.
type TesseractConfig struct {
	Binary string // binary name or absolute path; empty means "tesseract"
	Lang   string // default "eng"
	OEM    int    // OCR engine mode, default 3
	PSM    int    // page segmentation mode, default 6
}

// Tesseract recognizes text by invoking the tesseract binary on a
// temporary PNG of the rendered page.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
}

func NewTesseract(cfg TesseractConfig) *Tesseract {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.OEM == 0 {
		cfg.OEM = 3
	}
	if cfg.PSM == 0 {
		cfg.PSM = 6
	}
	return &Tesseract{cfg: cfg, runner: execRunner{}}
}

func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	tmpDir, err := os.MkdirTemp("", "docqa-ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	imgPath := filepath.Join(tmpDir, "page.png")
	f, err := os.Create(imgPath)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode page image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	// tesseract <page.png> stdout -l <lang> --oem 3 --psm 6
	args := []string{
		imgPath, "stdout",
		"-l", t.cfg.Lang,
		"--oem", strconv.Itoa(t.cfg.OEM),
		"--psm", strconv.Itoa(t.cfg.PSM),
	}
	out, errb, err := t.runner.Run(ctx, t.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (stderr: %s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
