package reports

import (
	"context"
	"fmt"
	"html"
	"time"
)

// PDFRenderer converts HTML into a PDF document. The production
// implementation is the Gotenberg client in the report package.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ErrUnknownReport reports a render request for an undeclared report ID.
var ErrUnknownReport = fmt.Errorf("reports: unknown report id")

// Service renders report documents.
type Service struct {
	catalog  *Catalog
	renderer PDFRenderer
	now      func() time.Time
}

// NewService wires the render service.
func NewService(catalog *Catalog, renderer PDFRenderer) *Service {
	return &Service{catalog: catalog, renderer: renderer, now: time.Now}
}

// Render produces the PDF bytes for a report. Capability checks happen at
// the handler before this runs.
func (s *Service) Render(ctx context.Context, id string) ([]byte, Definition, error) {
	def, ok := s.catalog.Get(id)
	if !ok {
		return nil, Definition{}, fmt.Errorf("%w: %s", ErrUnknownReport, id)
	}
	page := fmt.Sprintf(
		`<html><head><title>%s</title></head><body><h1>%s</h1><p>Generated %s</p></body></html>`,
		html.EscapeString(def.Title),
		html.EscapeString(def.Title),
		s.now().UTC().Format(time.RFC3339),
	)
	pdf, err := s.renderer.RenderHTML(ctx, page)
	if err != nil {
		return nil, Definition{}, fmt.Errorf("reports: render %s: %w", id, err)
	}
	return pdf, def, nil
}
