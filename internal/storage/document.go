package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studio/internal/domain"
)

// DocumentStore implements domain.DocumentStore using SQLite.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// SaveDocument creates or replaces a document together with its pages and
// blocks in one transaction.
func (s *DocumentStore) SaveDocument(doc *domain.Document) error {
	theme, err := json.Marshal(doc.Theme)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO documents (id, name, theme_json, client_id, template_id, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, theme_json = excluded.theme_json,
		   client_id = excluded.client_id, template_id = excluded.template_id,
		   published = excluded.published, updated_at = excluded.updated_at`,
		doc.ID, doc.Name, string(theme), doc.ClientID, doc.TemplateID, doc.Published, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	// Pages and blocks are replaced wholesale, like a snapshot restore
	if _, err := tx.Exec(`DELETE FROM blocks WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("delete blocks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM pages WHERE document_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("delete pages: %w", err)
	}

	for i, p := range doc.Pages {
		if _, err := tx.Exec(
			`INSERT INTO pages (id, document_id, label, sort_order) VALUES (?, ?, ?, ?)`,
			p.ID, doc.ID, p.Label, i,
		); err != nil {
			return fmt.Errorf("insert page %s: %w", p.ID, err)
		}
		for j, b := range doc.Blocks[p.ID] {
			row, err := encodeBlock(b)
			if err != nil {
				return fmt.Errorf("encode block %s: %w", b.ID, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO blocks (id, document_id, page_id, sort_order, type, x, y, width, height,
				   content_json, style_json, overrides_json, visible, locked)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				b.ID, doc.ID, p.ID, j, b.Type, row.x, row.y, row.width, row.height,
				row.content, row.style, row.overrides, row.visible, b.Locked,
			); err != nil {
				return fmt.Errorf("insert block %s: %w", b.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (s *DocumentStore) GetDocument(id string) (*domain.Document, error) {
	doc := &domain.Document{}
	var theme string
	err := s.db.Conn().QueryRow(
		`SELECT id, name, theme_json, client_id, template_id, published, last_export, created_at, updated_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Name, &theme, &doc.ClientID, &doc.TemplateID, &doc.Published, &doc.LastExport, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get document %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if err := json.Unmarshal([]byte(theme), &doc.Theme); err != nil {
		return nil, fmt.Errorf("decode theme: %w", err)
	}

	if doc.Pages, err = s.listPages(id); err != nil {
		return nil, err
	}
	if doc.Blocks, err = s.listBlocks(id); err != nil {
		return nil, err
	}
	for _, p := range doc.Pages {
		if doc.Blocks[p.ID] == nil {
			doc.Blocks[p.ID] = []domain.Block{}
		}
	}
	return doc, nil
}

func (s *DocumentStore) ListDocuments() ([]domain.DocumentSummary, error) {
	rows, err := s.db.Conn().Query(
		`SELECT d.id, d.name, d.client_id, d.published, d.updated_at,
		   (SELECT COUNT(*) FROM pages p WHERE p.document_id = d.id)
		 FROM documents d ORDER BY d.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DocumentSummary
	for rows.Next() {
		var d domain.DocumentSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.ClientID, &d.Published, &d.UpdatedAt, &d.PageCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document with its pages, blocks and revisions.
func (s *DocumentStore) DeleteDocument(id string) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM revision_state WHERE document_id = ?`,
		`DELETE FROM revisions WHERE document_id = ?`,
		`DELETE FROM blocks WHERE document_id = ?`,
		`DELETE FROM pages WHERE document_id = ?`,
		`DELETE FROM documents WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
	}
	return tx.Commit()
}

// RecordExport remembers where the latest artifact of a document was stored.
func (s *DocumentStore) RecordExport(id, path string) error {
	res, err := s.db.Conn().Exec(`UPDATE documents SET last_export = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record export %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *DocumentStore) listPages(docID string) ([]domain.Page, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, label FROM pages WHERE document_id = ? ORDER BY sort_order ASC`, docID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.ID, &p.Label); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *DocumentStore) listBlocks(docID string) (map[string][]domain.Block, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, page_id, type, x, y, width, height, content_json, style_json, overrides_json, visible, locked
		 FROM blocks WHERE document_id = ? ORDER BY page_id, sort_order ASC`, docID,
	)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	out := map[string][]domain.Block{}
	for rows.Next() {
		var (
			row    blockRow
			pageID string
			b      domain.Block
		)
		if err := rows.Scan(&b.ID, &pageID, &b.Type, &row.x, &row.y, &row.width, &row.height,
			&row.content, &row.style, &row.overrides, &row.visible, &b.Locked); err != nil {
			return nil, err
		}
		if err := row.decode(&b); err != nil {
			return nil, fmt.Errorf("decode block %s: %w", b.ID, err)
		}
		out[pageID] = append(out[pageID], b)
	}
	return out, rows.Err()
}

// ── row encoding ──

type blockRow struct {
	x, y                      string
	width, height             string
	content, style, overrides string
	visible                   sql.NullBool
}

func encodeBlock(b domain.Block) (blockRow, error) {
	row := blockRow{
		x:      b.Position.X.String(),
		y:      b.Position.Y.String(),
		width:  b.Size.Width.String(),
		height: b.Size.Height.String(),
	}
	var err error
	if row.content, err = encodeJSON(b.Content); err != nil {
		return row, err
	}
	if row.style, err = encodeJSON(b.Style); err != nil {
		return row, err
	}
	if row.overrides, err = encodeJSON(b.Overrides); err != nil {
		return row, err
	}
	if b.Visible != nil {
		row.visible = sql.NullBool{Bool: *b.Visible, Valid: true}
	}
	return row, nil
}

func (row blockRow) decode(b *domain.Block) error {
	var err error
	if b.Position.X, err = domain.ParseFraction(row.x); err != nil {
		return err
	}
	if b.Position.Y, err = domain.ParseFraction(row.y); err != nil {
		return err
	}
	if b.Size.Width, err = domain.ParseLength(row.width); err != nil {
		return err
	}
	if b.Size.Height, err = domain.ParseLength(row.height); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(row.content), &b.Content); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := json.Unmarshal([]byte(row.style), &b.Style); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	if err := json.Unmarshal([]byte(row.overrides), &b.Overrides); err != nil {
		return fmt.Errorf("overrides: %w", err)
	}
	if row.visible.Valid {
		b.Visible = domain.Bool(row.visible.Bool)
	}
	return nil
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "{}", nil
	}
	return string(data), nil
}
