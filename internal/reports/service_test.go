package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubRenderer struct {
	lastHTML string
	err      error
}

func (s *stubRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	s.lastHTML = html
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7 stub"), nil
}

func TestRenderKnownReport(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	renderer := &stubRenderer{}
	svc := NewService(catalog, renderer)

	pdf, def, err := svc.Render(context.Background(), "RPT-GODOWN-STOCK")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected pdf bytes")
	}
	if def.Module != "GODOWN" {
		t.Fatalf("unexpected definition %+v", def)
	}
	if !strings.Contains(renderer.lastHTML, "Godown Stock Summary") {
		t.Fatalf("rendered page must carry the report title, got %q", renderer.lastHTML)
	}
}

func TestRenderUnknownReport(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	svc := NewService(catalog, &stubRenderer{})

	_, _, err = svc.Render(context.Background(), "RPT-DOES-NOT-EXIST")
	if !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected ErrUnknownReport, got %v", err)
	}
}

func TestRenderPropagatesRendererFailure(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	boom := errors.New("gotenberg unavailable")
	svc := NewService(catalog, &stubRenderer{err: boom})

	_, _, err = svc.Render(context.Background(), "RPT-GODOWN-STOCK")
	if !errors.Is(err, boom) {
		t.Fatalf("expected renderer error, got %v", err)
	}
}
