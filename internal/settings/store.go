package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"folio/internal/sentinel"
)

// Store persists the singleton settings document.
// Get returns sentinel.ErrNotFound when nothing has been saved yet.
type Store interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

// MemoryStore keeps the document in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	doc *Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *m.doc
	cp.About.Strengths = append([]string(nil), m.doc.About.Strengths...)
	return &cp, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now()
	cp := *s
	cp.About.Strengths = append([]string(nil), s.About.Strengths...)
	m.doc = &cp
	return nil
}

// PostgresStore keeps the document as a single JSONB row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// The table holds at most one row, pinned to id 1.
const settingsRowID = 1

func (p *PostgresStore) Get(ctx context.Context) (*Settings, error) {
	var doc []byte
	var updatedAt time.Time
	err := p.db.QueryRowContext(ctx,
		`SELECT doc, updated_at FROM site_settings WHERE id = $1`, settingsRowID,
	).Scan(&doc, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	s.UpdatedAt = updatedAt
	return &s, nil
}

func (p *PostgresStore) Save(ctx context.Context, s *Settings) error {
	s.UpdatedAt = time.Now()
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	query := `
		INSERT INTO site_settings (id, doc, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.ExecContext(ctx, query, settingsRowID, doc, s.UpdatedAt); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
