// Package catalog builds the read-only set of launchable items shown on the
// desktop. Each Descriptor carries its content kind, resolved once here, so
// presentation never dispatches on id strings.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/retroshell/internal/geom"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// Kind selects the content renderer for a window body.
type Kind string

const (
	KindMarkdown       Kind = "markdown"
	KindTerminal       Kind = "terminal"
	KindArticleBrowser Kind = "article-browser"
	KindContactForm    Kind = "contact-form"
)

// DefaultGlyph is used when an item names no glyph.
const DefaultGlyph = "File"

// Built-in descriptor ids.
const (
	ArticlesID = "articles"
	TerminalID = "terminal"
)

// ParamFilePath is the content parameter holding a markdown file path.
const ParamFilePath = "filePath"

// Descriptor is a launchable catalog entry.
type Descriptor struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Glyph       string            `json:"glyph"`
	Kind        Kind              `json:"kind"`
	Params      map[string]string `json:"params,omitempty"`
	DefaultSize *geom.Size        `json:"default_size,omitempty"`
}

// Param returns a content parameter or "".
func (d Descriptor) Param(key string) string {
	if d.Params == nil {
		return ""
	}
	return d.Params[key]
}

// Catalog is an ordered, id-indexed list of descriptors plus article topics.
type Catalog struct {
	items  []Descriptor
	index  map[string]int
	topics []Topic
}

// portfolioFile mirrors portfolio-data.json.
type portfolioFile struct {
	Items []portfolioItem `json:"items"`
}

type portfolioItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Icon        string     `json:"icon"`
	FilePath    string     `json:"filePath"`
	Kind        string     `json:"kind,omitempty"`
	DefaultSize *geom.Size `json:"defaultSize,omitempty"`
}

// Sources names the files a catalog is loaded from. Empty paths fall back to
// the embedded sample data.
type Sources struct {
	PortfolioFile string
	ArticlesFile  string
}

// Load reads both catalog files and builds the catalog.
func Load(src Sources) (*Catalog, error) {
	portfolioData, err := readSource(src.PortfolioFile, "defaults/portfolio-data.json")
	if err != nil {
		return nil, err
	}
	articlesData, err := readSource(src.ArticlesFile, "defaults/articles-data.json")
	if err != nil {
		return nil, err
	}
	return Parse(portfolioData, articlesData)
}

// Default returns the catalog built from the embedded sample data.
func Default() (*Catalog, error) {
	return Load(Sources{})
}

func readSource(path, fallback string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		data, err := defaultsFS.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded %s: %w", fallback, err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return data, nil
}

// Parse builds a catalog from raw portfolio and articles JSON. articlesData
// may be empty, in which case the article browser has no topics.
func Parse(portfolioData, articlesData []byte) (*Catalog, error) {
	var pf portfolioFile
	if err := json.Unmarshal(portfolioData, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio data: %w", err)
	}

	var topics []Topic
	if len(strings.TrimSpace(string(articlesData))) > 0 {
		var err error
		topics, err = parseTopics(articlesData)
		if err != nil {
			return nil, err
		}
	}

	items := make([]Descriptor, 0, len(pf.Items)+2)
	for i, it := range pf.Items {
		d, err := descriptorFromItem(it)
		if err != nil {
			return nil, fmt.Errorf("portfolio item %d: %w", i, err)
		}
		items = append(items, d)
	}
	items = append(items, Builtins()...)

	return New(items, topics)
}

// New builds a catalog from descriptors, rejecting empty and duplicate ids.
func New(items []Descriptor, topics []Topic) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Descriptor, 0, len(items)),
		index:  make(map[string]int, len(items)),
		topics: topics,
	}
	for _, d := range items {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("catalog entry %q has an empty id", d.Title)
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", d.ID)
		}
		if d.Glyph == "" {
			d.Glyph = DefaultGlyph
		}
		c.index[d.ID] = len(c.items)
		c.items = append(c.items, d)
	}
	return c, nil
}

func descriptorFromItem(it portfolioItem) (Descriptor, error) {
	d := Descriptor{
		ID:          strings.TrimSpace(it.ID),
		Title:       it.Title,
		Glyph:       it.Icon,
		DefaultSize: it.DefaultSize,
	}
	switch strings.ToLower(strings.TrimSpace(it.Kind)) {
	case "", "markdown":
		d.Kind = KindMarkdown
		d.Params = map[string]string{ParamFilePath: it.FilePath}
	case "contact", string(KindContactForm):
		d.Kind = KindContactForm
	case string(KindTerminal):
		d.Kind = KindTerminal
	case "articles", string(KindArticleBrowser):
		d.Kind = KindArticleBrowser
	default:
		return Descriptor{}, fmt.Errorf("unsupported kind %q for %q", it.Kind, it.ID)
	}
	return d, nil
}

// Builtins returns the descriptors that exist regardless of portfolio data.
func Builtins() []Descriptor {
	return []Descriptor{
		{
			ID:          ArticlesID,
			Title:       "Articles",
			Glyph:       "BookText",
			Kind:        KindArticleBrowser,
			DefaultSize: &geom.Size{Width: 500, Height: 400},
		},
		{
			ID:          TerminalID,
			Title:       "Terminal",
			Glyph:       "TerminalSquare",
			Kind:        KindTerminal,
			DefaultSize: &geom.Size{Width: 640, Height: 400},
		},
	}
}

// Items returns descriptors in catalog order.
func (c *Catalog) Items() []Descriptor {
	out := make([]Descriptor, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup returns the descriptor for id.
func (c *Catalog) Lookup(id string) (Descriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return c.items[i], true
}

// Len returns the number of launchable items.
func (c *Catalog) Len() int {
	return len(c.items)
}
