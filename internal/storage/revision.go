package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studio/internal/domain"
)

// MaxRevisions is how many snapshots are kept per document.
const MaxRevisions = 40

// Revision is a saved snapshot of a document.
type Revision struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"documentId"`
	ParentID     *string   `json:"parentId"`
	Label        string    `json:"label"`
	SnapshotJSON string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Document decodes the snapshot.
func (r Revision) Document() (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal([]byte(r.SnapshotJSON), &doc); err != nil {
		return domain.Document{}, fmt.Errorf("decode revision %s: %w", r.ID, err)
	}
	return doc, nil
}

// RevisionStore manages document snapshot history in SQLite.
type RevisionStore struct {
	db *DB
}

func NewRevisionStore(db *DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// Push stores a snapshot of doc as the new current revision.
func (s *RevisionStore) Push(doc domain.Document, label string) (*Revision, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	now := time.Now()
	rev := &Revision{
		ID:           uuid.NewString(),
		DocumentID:   doc.ID,
		Label:        label,
		SnapshotJSON: string(data),
		CreatedAt:    now,
	}
	if cur, err := s.currentID(doc.ID); err == nil {
		rev.ParentID = &cur
	}

	_, err = s.db.Conn().Exec(
		`INSERT INTO revisions (id, document_id, parent_id, label, snapshot_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.DocumentID, rev.ParentID, rev.Label, rev.SnapshotJSON, rev.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}
	if err := s.GoTo(doc.ID, rev.ID); err != nil {
		return nil, fmt.Errorf("update revision state: %w", err)
	}

	s.pruneIfNeeded(doc.ID, MaxRevisions)
	return rev, nil
}

// List returns a document's revisions, oldest first.
func (s *RevisionStore) List(docID string) ([]Revision, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, document_id, parent_id, label, snapshot_json, created_at
		 FROM revisions WHERE document_id = ? ORDER BY rowid ASC`, docID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.ParentID, &r.Label, &r.SnapshotJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *RevisionStore) Get(id string) (*Revision, error) {
	var r Revision
	err := s.db.Conn().QueryRow(
		`SELECT id, document_id, parent_id, label, snapshot_json, created_at FROM revisions WHERE id = ?`, id,
	).Scan(&r.ID, &r.DocumentID, &r.ParentID, &r.Label, &r.SnapshotJSON, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get revision %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get revision: %w", err)
	}
	return &r, nil
}

// Current returns the revision the document was last saved or restored at.
func (s *RevisionStore) Current(docID string) (*Revision, error) {
	id, err := s.currentID(docID)
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// GoTo updates the current revision pointer.
func (s *RevisionStore) GoTo(docID, revisionID string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO revision_state (document_id, current_revision_id) VALUES (?, ?)
		 ON CONFLICT(document_id) DO UPDATE SET current_revision_id = excluded.current_revision_id`,
		docID, revisionID,
	)
	return err
}

// Clear removes all revisions of a document.
func (s *RevisionStore) Clear(docID string) error {
	_, _ = s.db.Conn().Exec(`DELETE FROM revision_state WHERE document_id = ?`, docID)
	_, err := s.db.Conn().Exec(`DELETE FROM revisions WHERE document_id = ?`, docID)
	return err
}

func (s *RevisionStore) currentID(docID string) (string, error) {
	var id string
	err := s.db.Conn().QueryRow(
		`SELECT current_revision_id FROM revision_state WHERE document_id = ?`, docID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("current revision of %s: %w", docID, domain.ErrNotFound)
	}
	return id, err
}

// pruneIfNeeded removes the oldest revisions when count exceeds maxRevs.
// The current revision is never removed.
func (s *RevisionStore) pruneIfNeeded(docID string, maxRevs int) {
	var count int
	s.db.Conn().QueryRow(`SELECT COUNT(*) FROM revisions WHERE document_id = ?`, docID).Scan(&count)
	if count <= maxRevs {
		return
	}

	// Get current revision BEFORE opening rows cursor (single connection)
	currentID, _ := s.currentID(docID)

	rows, err := s.db.Conn().Query(
		`SELECT id FROM revisions WHERE document_id = ? ORDER BY rowid ASC LIMIT ?`, docID, count-maxRevs,
	)
	if err != nil {
		return
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		if id != currentID {
			ids = append(ids, id)
		}
	}
	rows.Close()

	for _, id := range ids {
		var parentID sql.NullString
		s.db.Conn().QueryRow(`SELECT parent_id FROM revisions WHERE id = ?`, id).Scan(&parentID)
		if parentID.Valid {
			s.db.Conn().Exec(`UPDATE revisions SET parent_id = ? WHERE parent_id = ?`, parentID.String, id)
		} else {
			s.db.Conn().Exec(`UPDATE revisions SET parent_id = NULL WHERE parent_id = ?`, id)
		}
		s.db.Conn().Exec(`DELETE FROM revisions WHERE id = ?`, id)
	}
}
