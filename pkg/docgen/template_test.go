package docgen

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

// writeDocx builds a minimal .docx archive whose body paragraph carries the
// given text.
func writeDocx(t *testing.T, path, body string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	ct, err := zw.Create("[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	ct.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))

	doc, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc.Write([]byte(`<?xml version="1.0"?><w:document><w:body><w:p><w:r><w:t>` +
		body + `</w:t></w:r></w:p></w:body></w:document>`))

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// readDocumentXML extracts word/document.xml from a rendered archive.
func readDocumentXML(t *testing.T, rendered []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(rendered), int64(len(rendered)))
	if err != nil {
		t.Fatalf("rendered output is not a zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				t.Fatal(err)
			}
			defer rc.Close()
			content, err := io.ReadAll(rc)
			if err != nil {
				t.Fatal(err)
			}
			return string(content)
		}
	}
	t.Fatal("rendered archive has no word/document.xml")
	return ""
}

func testRenderer(t *testing.T, body string) *Renderer {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tpl.docx")
	writeDocx(t, path, body)
	return NewRenderer(TemplateRegistry{
		TypeParticuliers: {"fr": path},
	})
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	r := testRenderer(t, "Client: {Prenom} {Nom}, Ref: {Reference_client}")
	data := DocumentData{"Prenom": "Yacine", "Nom": "Benali", "Reference_client": "REG-20250314-00042"}

	out, err := r.Render(TypeParticuliers, "fr", data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	xml := readDocumentXML(t, out)
	if !strings.Contains(xml, "Client: Yacine Benali, Ref: REG-20250314-00042") {
		t.Errorf("placeholders not substituted: %s", xml)
	}
}

func TestRenderMissingFieldResolvesToEmpty(t *testing.T) {
	r := testRenderer(t, "Offre: [{internet_offer}]")
	out, err := r.Render(TypeParticuliers, "fr", DocumentData{"Nom": "Benali"})
	if err != nil {
		t.Fatalf("a missing field must not abort rendering: %v", err)
	}
	if !strings.Contains(readDocumentXML(t, out), "Offre: []") {
		t.Errorf("missing field should render as empty string")
	}
}

func TestRenderPlaceholderSplitAcrossRuns(t *testing.T) {
	// Word splits tokens across formatting runs; the inner tags must be
	// stripped before the field name is resolved.
	r := testRenderer(t, `{Nom</w:t></w:r><w:r><w:t>}`)
	out, err := r.Render(TypeParticuliers, "fr", DocumentData{"Nom": "Benali"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(readDocumentXML(t, out), "Benali") {
		t.Errorf("split placeholder not resolved")
	}
}

func TestRenderEscapesValues(t *testing.T) {
	r := testRenderer(t, "{Nom}")
	out, err := r.Render(TypeParticuliers, "fr", DocumentData{"Nom": `Ben & "Ali" <SARL>`})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	xml := readDocumentXML(t, out)
	if strings.Contains(xml, "<SARL>") {
		t.Errorf("value not XML-escaped: %s", xml)
	}
	if !strings.Contains(xml, "&amp;") {
		t.Errorf("ampersand not escaped: %s", xml)
	}
}

func TestRenderTemplateNotFound(t *testing.T) {
	r := NewRenderer(TemplateRegistry{
		TypeParticuliers: {"fr": filepath.Join(t.TempDir(), "missing.docx")},
	})

	var nf *TemplateNotFoundError
	_, err := r.Render(TypeParticuliers, "fr", DocumentData{})
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want TemplateNotFoundError", err)
	}

	// unregistered pair
	_, err = r.Render(TypeEntreprise, "ar", DocumentData{})
	if !errors.As(err, &nf) {
		t.Fatalf("unregistered pair: got %v, want TemplateNotFoundError", err)
	}
}

func TestRenderAggregatesSyntaxIssues(t *testing.T) {
	r := testRenderer(t, "{bad name!} then {unclosed and {Nom}")

	var syntaxErr *TemplateSyntaxError
	_, err := r.Render(TypeParticuliers, "fr", DocumentData{"Nom": "Benali"})
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("got %v, want TemplateSyntaxError", err)
	}
	if len(syntaxErr.Issues) < 2 {
		t.Errorf("expected every issue collected, got %v", syntaxErr.Issues)
	}
}

func TestSyntaxIssuesStayValidUTF8(t *testing.T) {
	// An unclosed brace followed by Arabic text: the context window in the
	// issue message must not cut a rune in half.
	content := "{" + strings.Repeat("ع", 40)
	issues := balanceIssues(content)
	if len(issues) == 0 {
		t.Fatal("expected an unclosed-placeholder issue")
	}
	for _, issue := range issues {
		if !utf8.ValidString(issue) {
			t.Errorf("issue message carries invalid UTF-8: %q", issue)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := testRenderer(t, "Ref {Reference_client} / {Nom}")
	data := DocumentData{"Reference_client": "REG-20250314-00042", "Nom": "Benali"}

	first, err := r.Render(TypeParticuliers, "fr", data)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(TypeParticuliers, "fr", data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("two renders of the same data should be byte-identical")
	}
}
