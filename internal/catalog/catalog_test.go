package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IncludesBuiltinsAfterPortfolioItems(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	items := c.Items()
	if len(items) < 2 {
		t.Fatalf("expected at least the builtins, got %d items", len(items))
	}
	if items[len(items)-2].ID != ArticlesID || items[len(items)-1].ID != TerminalID {
		t.Fatalf("expected builtins last, got %q and %q", items[len(items)-2].ID, items[len(items)-1].ID)
	}

	term, ok := c.Lookup(TerminalID)
	if !ok {
		t.Fatalf("terminal descriptor missing")
	}
	if term.Kind != KindTerminal || term.DefaultSize == nil || term.DefaultSize.Width != 640 || term.DefaultSize.Height != 400 {
		t.Fatalf("unexpected terminal descriptor: %+v", term)
	}
	if len(c.Topics()) == 0 {
		t.Fatalf("expected embedded topics")
	}
}

func TestParse_ResolvesKindsAndGlyphs(t *testing.T) {
	portfolio := `{"items":[
		{"id":"about","title":"About","icon":"User","filePath":"about.md","defaultSize":{"width":600,"height":400}},
		{"id":"notes","title":"Notes","filePath":"notes.md"},
		{"id":"mail","title":"Mail","icon":"Mail","kind":"contact"}
	]}`
	c, err := Parse([]byte(portfolio), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	about, _ := c.Lookup("about")
	if about.Kind != KindMarkdown || about.Param(ParamFilePath) != "about.md" {
		t.Fatalf("unexpected about descriptor: %+v", about)
	}
	if about.DefaultSize == nil || about.DefaultSize.Width != 600 {
		t.Fatalf("expected default size to be carried, got %+v", about.DefaultSize)
	}

	notes, _ := c.Lookup("notes")
	if notes.Glyph != DefaultGlyph {
		t.Fatalf("expected fallback glyph, got %q", notes.Glyph)
	}
	if notes.DefaultSize != nil {
		t.Fatalf("expected no default size, got %+v", notes.DefaultSize)
	}

	mail, _ := c.Lookup("mail")
	if mail.Kind != KindContactForm {
		t.Fatalf("expected contact form kind, got %q", mail.Kind)
	}
	if len(c.Topics()) != 0 {
		t.Fatalf("expected no topics without articles data")
	}
}

func TestParse_RejectsDuplicateAndEmptyIDs(t *testing.T) {
	tests := []struct {
		name      string
		portfolio string
		want      string
	}{
		{"duplicate", `{"items":[{"id":"a","title":"A"},{"id":"a","title":"B"}]}`, "duplicate"},
		{"shadows builtin", `{"items":[{"id":"terminal","title":"T"}]}`, "duplicate"},
		{"empty", `{"items":[{"id":" ","title":"Blank"}]}`, "empty id"},
		{"bad kind", `{"items":[{"id":"x","title":"X","kind":"video"}]}`, "unsupported kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.portfolio), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestArticle_BuildsPrefixedDescriptor(t *testing.T) {
	articles := `{"topics":[{"id":"go","title":"Go","articles":[
		{"id":"wm","title":"Window Managers","summary":"s","filePath":"articles/wm.md"}
	]}]}`
	c, err := Parse([]byte(`{"items":[]}`), []byte(articles))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	d, ok := c.Article("go", "wm")
	if !ok {
		t.Fatalf("article not found")
	}
	if d.ID != "article-wm" || d.Kind != KindMarkdown || d.Param(ParamFilePath) != "articles/wm.md" {
		t.Fatalf("unexpected article descriptor: %+v", d)
	}
	if d.DefaultSize == nil || *d.DefaultSize != ArticleDefaultSize {
		t.Fatalf("unexpected article size: %+v", d.DefaultSize)
	}

	if _, ok := c.Article("go", "missing"); ok {
		t.Fatalf("expected missing article lookup to fail")
	}
	if _, ok := c.Article("rust", "wm"); ok {
		t.Fatalf("expected missing topic lookup to fail")
	}
}

func TestLoad_ReadsFiles(t *testing.T) {
	dir := t.TempDir()
	portfolioPath := filepath.Join(dir, "portfolio-data.json")
	if err := os.WriteFile(portfolioPath, []byte(`{"items":[{"id":"cv","title":"CV","filePath":"cv.md"}]}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(Sources{PortfolioFile: portfolioPath})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := c.Lookup("cv"); !ok {
		t.Fatalf("expected cv descriptor from file")
	}

	_, err = Load(Sources{PortfolioFile: filepath.Join(dir, "missing.json")})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
