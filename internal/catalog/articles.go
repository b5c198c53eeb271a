package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/retroshell/internal/geom"
)

// ArticleIDPrefix prefixes window ids spawned from the article browser.
const ArticleIDPrefix = "article-"

// ArticleDefaultSize is the default window size for a single article.
var ArticleDefaultSize = geom.Size{Width: 640, Height: 480}

// Article is one entry in the article browser.
type Article struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	FilePath string `json:"filePath"`
}

// Topic groups articles in the browser.
type Topic struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Articles []Article `json:"articles"`
}

type articlesFile struct {
	Topics []Topic `json:"topics"`
}

func parseTopics(data []byte) ([]Topic, error) {
	var af articlesFile
	if err := json.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("failed to parse articles data: %w", err)
	}
	seen := make(map[string]struct{})
	for _, t := range af.Topics {
		for _, a := range t.Articles {
			if a.ID == "" {
				return nil, fmt.Errorf("topic %q has an article with an empty id", t.ID)
			}
			if _, dup := seen[a.ID]; dup {
				return nil, fmt.Errorf("duplicate article id %q", a.ID)
			}
			seen[a.ID] = struct{}{}
		}
	}
	return af.Topics, nil
}

// Topics returns the article browser topics.
func (c *Catalog) Topics() []Topic {
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Topic returns a topic by id.
func (c *Catalog) Topic(id string) (Topic, bool) {
	for _, t := range c.topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// Article finds an article in a topic and returns the descriptor for the
// window that displays it.
func (c *Catalog) Article(topicID, articleID string) (Descriptor, bool) {
	t, ok := c.Topic(topicID)
	if !ok {
		return Descriptor{}, false
	}
	for _, a := range t.Articles {
		if a.ID == articleID {
			return ArticleDescriptor(a), true
		}
	}
	return Descriptor{}, false
}

// ArticleDescriptor builds the window descriptor for a single article.
func ArticleDescriptor(a Article) Descriptor {
	size := ArticleDefaultSize
	return Descriptor{
		ID:          ArticleIDPrefix + a.ID,
		Title:       a.Title,
		Glyph:       "BookText",
		Kind:        KindMarkdown,
		Params:      map[string]string{ParamFilePath: a.FilePath},
		DefaultSize: &size,
	}
}
