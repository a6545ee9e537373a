package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildDOCX assembles a minimal DOCX archive around the given
// document.xml body.
func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("writing document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText([]byte("  Senior Go developer with ten years of experience.  "), "resume.txt")
	if err != nil {
		t.Fatalf("ExtractText error: %v", err)
	}
	if text != "Senior Go developer with ten years of experience." {
		t.Errorf("text = %q", text)
	}
}

func TestExtractText_UnknownExtensionTreatedAsPlain(t *testing.T) {
	text, err := ExtractText([]byte("plain enough content here"), "notes.md")
	if err != nil {
		t.Fatalf("ExtractText error: %v", err)
	}
	if !strings.Contains(text, "plain enough") {
		t.Errorf("text = %q", text)
	}
}

func TestExtractText_TooShort(t *testing.T) {
	_, err := ExtractText([]byte("   hi   "), "resume.txt")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("err = %v, want ErrNoText", err)
	}
}

func TestExtractText_DOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Python and TensorFlow engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDOCX(t, doc)

	text, err := ExtractText(data, "resume.docx")
	if err != nil {
		t.Fatalf("ExtractText error: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Python and TensorFlow engineer") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Error("paragraph break not preserved")
	}
}

func TestExtractText_DOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte("<styles/>"))
	zw.Close()

	_, err := ExtractText(buf.Bytes(), "resume.docx")
	if err == nil {
		t.Fatal("ExtractText accepted a DOCX without document.xml")
	}
}

func TestExtractText_CorruptDOCX(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a zip archive"), "resume.docx")
	if err == nil {
		t.Fatal("ExtractText accepted a corrupt DOCX")
	}
}

func TestExtractText_HTML(t *testing.T) {
	page := `<html><head><style>body{color:red}</style><script>alert(1)</script></head>
<body><h1>John Smith</h1><p>Backend developer using Go and PostgreSQL.</p></body></html>`

	text, err := ExtractText([]byte(page), "resume.html")
	if err != nil {
		t.Fatalf("ExtractText error: %v", err)
	}
	if !strings.Contains(text, "John Smith") || !strings.Contains(text, "PostgreSQL") {
		t.Errorf("text = %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Errorf("script/style content leaked: %q", text)
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText([]byte("%PDF-not really"), "resume.pdf")
	if err == nil {
		t.Fatal("ExtractText accepted a corrupt PDF")
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(path, []byte("Experienced data scientist in residence."), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile error: %v", err)
	}
	if !strings.Contains(text, "data scientist") {
		t.Errorf("text = %q", text)
	}

	if _, err := ExtractFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("ExtractFile accepted a missing file")
	}
}
