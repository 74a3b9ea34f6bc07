package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Senior Go Engineer</w:t></w:r></w:p>
</w:body>
</w:document>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": relsXML,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromDocx(t *testing.T) {
	data := buildDocx(t)
	for _, mime := range []string{MimeDOCX, "application/zip", ""} {
		t.Run("mime="+mime, func(t *testing.T) {
			text, err := Text(context.Background(), data, mime, "resume.docx")
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			if text != "Jane Doe\nSenior Go Engineer" {
				t.Fatalf("unexpected text %q", text)
			}
		})
	}
}

func TestTextFromPlain(t *testing.T) {
	text, err := Text(context.Background(), []byte("  Go developer, 5 years\n"), "text/plain; charset=utf-8", "cv.txt")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Go developer, 5 years" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestTextRejectsUnsupportedZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("notes.txt")
	_, _ = w.Write([]byte("hello"))
	_ = zw.Close()

	_, err := Text(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestTextRejectsEmptyAndBlank(t *testing.T) {
	if _, err := Text(context.Background(), nil, MimeText, "a.txt"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText for empty payload, got %v", err)
	}
	if _, err := Text(context.Background(), []byte("   \n"), MimeText, "a.txt"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText for blank text, got %v", err)
	}
}

func TestTextHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, []byte("x"), MimeText, "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
