package domain

import "time"

// Theme is the document-wide palette and font pairing.
type Theme struct {
	Palette     map[string]string `json:"palette" yaml:"palette"`
	HeadingFont string            `json:"headingFont" yaml:"heading_font"`
	BodyFont    string            `json:"bodyFont" yaml:"body_font"`
}

func (t Theme) Clone() Theme {
	out := t
	if t.Palette != nil {
		out.Palette = make(map[string]string, len(t.Palette))
		for k, v := range t.Palette {
			out.Palette[k] = v
		}
	}
	return out
}

// Color returns the palette entry for key, or fallback.
func (t Theme) Color(key, fallback string) string {
	if c, ok := t.Palette[key]; ok && c != "" {
		return c
	}
	return fallback
}

type Page struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Document is the editable proposal/contract artifact.
// Blocks maps a page ID to the blocks placed on that page.
type Document struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Pages      []Page             `json:"pages" yaml:"pages"`
	Blocks     map[string][]Block `json:"blocks" yaml:"blocks"`
	Theme      Theme              `json:"theme" yaml:"theme"`
	ClientID   string             `json:"clientId,omitempty" yaml:"client_id,omitempty"` // reference into the client directory
	TemplateID string             `json:"templateId,omitempty" yaml:"template_id,omitempty"`
	Published  bool               `json:"published" yaml:"published"`
	LastExport string             `json:"lastExport,omitempty" yaml:"-"` // path of the latest artifact
	CreatedAt  time.Time          `json:"createdAt" yaml:"-"`
	UpdatedAt  time.Time          `json:"updatedAt" yaml:"-"`
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	out := d
	out.Pages = append([]Page(nil), d.Pages...)
	out.Theme = d.Theme.Clone()
	out.Blocks = make(map[string][]Block, len(d.Blocks))
	for pid, blocks := range d.Blocks {
		cp := make([]Block, len(blocks))
		for i, b := range blocks {
			cp[i] = b.Clone()
		}
		out.Blocks[pid] = cp
	}
	return out
}

// PageIndex returns the position of the page in document order or -1.
func (d Document) PageIndex(pageID string) int {
	for i, p := range d.Pages {
		if p.ID == pageID {
			return i
		}
	}
	return -1
}

// FindBlock locates a block by ID across all pages.
func (d Document) FindBlock(blockID string) (Block, string, bool) {
	for _, p := range d.Pages {
		for _, b := range d.Blocks[p.ID] {
			if b.ID == blockID {
				return b, p.ID, true
			}
		}
	}
	return Block{}, "", false
}

// BlockCount returns the number of blocks across all pages.
func (d Document) BlockCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(d.Blocks[p.ID])
	}
	return n
}

// DocumentSummary is the list view of a stored document.
type DocumentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClientID  string    `json:"clientId,omitempty"`
	Published bool      `json:"published"`
	PageCount int       `json:"pageCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Template is a pre-built document usable as a duplication source.
type Template struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Document Document `json:"document" yaml:"document"`
}

type DocumentStore interface {
	SaveDocument(doc *Document) error
	GetDocument(id string) (*Document, error)
	ListDocuments() ([]DocumentSummary, error)
	DeleteDocument(id string) error
}

// TemplateSource is a read-only catalogue of templates.
type TemplateSource interface {
	ListTemplates() ([]Template, error)
	GetTemplate(id string) (*Template, error)
}
