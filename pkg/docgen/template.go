package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// TemplateRegistry maps (document type, language) to a .docx template path.
// The registry is fixed at startup from configuration; template paths are
// never user-supplied.
type TemplateRegistry map[DocumentType]map[string]string

// Languages the registry must cover for every document type.
var Languages = []string{"fr", "ar"}

// DefaultRegistry builds the stock registry rooted at dir, using the template
// file names the commercial team maintains.
func DefaultRegistry(dir string) TemplateRegistry {
	return TemplateRegistry{
		TypeParticuliers: {
			"fr": filepath.Join(dir, "MODELE Particuliers.docx"),
			"ar": filepath.Join(dir, "MODELE Particuliers AR.docx"),
		},
		TypeEntreprise: {
			"fr": filepath.Join(dir, "MODEL ENTREPRISE.docx"),
			"ar": filepath.Join(dir, "MODEL ENTREPRISE AR.docx"),
		},
	}
}

// Renderer fills .docx templates with canonical document data. It holds no
// mutable state, so one instance serves both the pre-flight validation render
// and the final render of the same document.
type Renderer struct {
	registry TemplateRegistry
}

func NewRenderer(registry TemplateRegistry) *Renderer {
	return &Renderer{registry: registry}
}

// Match {Placeholder} tokens. Word may split a token across formatting runs,
// so the inner text can contain XML tags that get stripped before the field
// name is resolved.
var (
	placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)
	xmlTagRe      = regexp.MustCompile(`<[^<>]*>`)
	fieldNameRe   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Render resolves the template for (docType, lang) and substitutes every
// placeholder from data. A placeholder naming a field absent from data
// resolves to the empty string. Returns *TemplateNotFoundError when the
// registry has no readable resource for the pair and *TemplateSyntaxError
// when the template itself is malformed.
func (r *Renderer) Render(docType DocumentType, lang string, data DocumentData) ([]byte, error) {
	path, ok := r.registry[docType][lang]
	if !ok {
		return nil, &TemplateNotFoundError{Kind: docType, Lang: lang}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateNotFoundError{Kind: docType, Lang: lang, Path: path}
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, &TemplateSyntaxError{Kind: docType, Lang: lang,
			Issues: []string{fmt.Sprintf("not a valid docx archive: %v", err)}}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var issues []string

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open template entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read template entry %s: %w", f.Name, err)
		}

		if isTextPart(f.Name) {
			filled, partIssues := fillPart(string(content), data)
			issues = append(issues, partIssues...)
			content = []byte(filled)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("write template entry %s: %w", f.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("write template entry %s: %w", f.Name, err)
		}
	}

	if len(issues) > 0 {
		return nil, &TemplateSyntaxError{Kind: docType, Lang: lang, Issues: issues}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate renders nothing but surfaces the same errors Render would, for the
// pre-flight pass that must run before any external side effect.
func (r *Renderer) Validate(docType DocumentType, lang string, data DocumentData) error {
	_, err := r.Render(docType, lang, data)
	return err
}

// isTextPart reports whether a docx archive entry carries document text with
// placeholders: the body plus headers and footers.
func isTextPart(name string) bool {
	if name == "word/document.xml" {
		return true
	}
	base := filepath.Base(name)
	return strings.HasPrefix(name, "word/") &&
		(strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer")) &&
		strings.HasSuffix(base, ".xml")
}

// fillPart substitutes placeholders in one XML part, collecting every
// malformed expression instead of stopping at the first.
func fillPart(content string, data DocumentData) (string, []string) {
	issues := balanceIssues(content)

	filled := placeholderRe.ReplaceAllStringFunc(content, func(token string) string {
		inner := token[1 : len(token)-1]
		name := strings.TrimSpace(xmlTagRe.ReplaceAllString(inner, ""))
		if !fieldNameRe.MatchString(name) {
			issues = append(issues, fmt.Sprintf("malformed placeholder %q", name))
			return token
		}
		return escapeXML(data.Field(name))
	})

	return filled, issues
}

// balanceIssues flags unpaired braces, which Word users produce by deleting
// half of a placeholder while editing a template.
func balanceIssues(content string) []string {
	var issues []string
	depth := 0
	openAt := -1
	for i, c := range content {
		switch c {
		case '{':
			if depth > 0 {
				issues = append(issues, fmt.Sprintf("nested opening brace near %q", snippet(content, i)))
			} else {
				openAt = i
			}
			depth++
		case '}':
			if depth == 0 {
				issues = append(issues, fmt.Sprintf("unopened closing brace near %q", snippet(content, i)))
			} else {
				depth--
			}
		}
	}
	if depth > 0 {
		issues = append(issues, fmt.Sprintf("unclosed placeholder near %q", snippet(content, openAt)))
	}
	return issues
}

// snippet extracts a short context window starting at a brace, clamped to a
// rune boundary so error messages stay valid UTF-8.
func snippet(content string, at int) string {
	end := at + 30
	if end > len(content) {
		end = len(content)
	}
	for end > at && end < len(content) && !utf8.RuneStart(content[end]) {
		end--
	}
	return content[at:end]
}

func escapeXML(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
