package docgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced by the generation workflow. Handlers map these to
// HTTP status codes; everything else is a plain 500.
var (
	// ErrInvalidInput marks a missing or malformed document type / submission.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an unknown document reference on update/delete/get.
	ErrNotFound = errors.New("document not found")

	// ErrStoreWrite marks a failed file or database write during the final
	// persist step. Files written before the failure are left in place.
	ErrStoreWrite = errors.New("store write failed")

	// ErrRender marks a failure during the final render, after pre-flight
	// validation already passed.
	ErrRender = errors.New("document render failed")
)

// TemplateNotFoundError reports a template resource missing from the
// configured registry. This is an operator-facing configuration problem.
type TemplateNotFoundError struct {
	Kind DocumentType
	Lang string
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found for %s/%s: %s", e.Kind, e.Lang, e.Path)
}

// TemplateSyntaxError reports a structurally invalid template. Issues carries
// every offending placeholder expression found, not just the first one.
type TemplateSyntaxError struct {
	Kind   DocumentType
	Lang   string
	Issues []string
}

func (e *TemplateSyntaxError) Error() string {
	return fmt.Sprintf("template %s/%s has %d invalid placeholder(s): %s",
		e.Kind, e.Lang, len(e.Issues), strings.Join(e.Issues, "; "))
}
