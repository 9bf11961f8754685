package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studio/internal/domain"
)

// TemplateStore keeps pre-built documents usable as duplication sources.
// It implements domain.TemplateSource.
type TemplateStore struct {
	db *DB
}

func NewTemplateStore(db *DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// SaveTemplate creates or replaces a template.
func (s *TemplateStore) SaveTemplate(t *domain.Template) error {
	data, err := json.Marshal(t.Document)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	now := time.Now()
	_, err = s.db.Conn().Exec(
		`INSERT INTO templates (id, name, document_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, document_json = excluded.document_json,
		   updated_at = excluded.updated_at`,
		t.ID, t.Name, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

func (s *TemplateStore) GetTemplate(id string) (*domain.Template, error) {
	var (
		t    domain.Template
		data string
	)
	err := s.db.Conn().QueryRow(
		`SELECT id, name, document_json FROM templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get template %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &t.Document); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", id, err)
	}
	return &t, nil
}

func (s *TemplateStore) ListTemplates() ([]domain.Template, error) {
	rows, err := s.db.Conn().Query(`SELECT id, name, document_json FROM templates ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Template
	for rows.Next() {
		var (
			t    domain.Template
			data string
		)
		if err := rows.Scan(&t.ID, &t.Name, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &t.Document); err != nil {
			return nil, fmt.Errorf("decode template %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TemplateStore) DeleteTemplate(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM templates WHERE id = ?`, id)
	return err
}
