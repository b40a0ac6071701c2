// Package store provides CRUD operations for users, documents, and QA
// history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyunwoo-dev/paperlens/internal/db"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// User is an account that owns uploaded documents.
type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Document is a persisted record of an analyzed upload. The extracted text
// itself is not stored; the retriever cache and the file on disk carry it.
type Document struct {
	ID         string
	UserID     string
	Filename   string
	FilePath   string
	Summary    string
	Domain     string
	UploadedAt time.Time
}

// QARecord is one question/answer exchange about a document.
type QARecord struct {
	ID         string
	DocumentID string
	Question   string
	Answer     string
	CreatedAt  time.Time
}

// Store provides persistence backed by the given database.
type Store struct {
	db *db.DB
}

// New creates a Store backed by the given database.
func New(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateUser inserts a new user. If u.ID is empty a UUID is generated.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name) VALUES (?, ?, ?)`,
		u.ID, u.Email, u.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// CreateDocument inserts a new document. If doc.ID is empty a UUID is
// generated. A second upload of the same filename by the same user fails
// the unique constraint; callers should check with
// GetDocumentByUserAndFilename first.
func (s *Store) CreateDocument(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, user_id, filename, file_path, summary, domain)
		VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.UserID, doc.Filename, doc.FilePath, doc.Summary, doc.Domain,
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, filename, file_path, summary, domain, uploaded_at
		FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// GetDocumentByUserAndFilename retrieves the document a user previously
// uploaded under this filename, if any.
func (s *Store) GetDocumentByUserAndFilename(ctx context.Context, userID, filename string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, filename, file_path, summary, domain, uploaded_at
		FROM documents WHERE user_id = ? AND filename = ?`, userID, filename)
	return scanDocument(row)
}

// ListDocumentsByUser returns a user's documents, most recent first.
func (s *Store) ListDocumentsByUser(ctx context.Context, userID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, file_path, summary, domain, uploaded_at
		FROM documents WHERE user_id = ? ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListDocuments returns all documents, most recent first.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, file_path, summary, domain, uploaded_at
		FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// UpdateDocumentAnalysis refreshes the summary and domain of an existing
// document after re-analysis.
func (s *Store) UpdateDocumentAnalysis(ctx context.Context, id, summary, domain string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET summary = ?, domain = ? WHERE id = ?`,
		summary, domain, id,
	)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDocument removes a document. Its QA history goes with it via the
// foreign key cascade.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveQA inserts a question/answer record. If rec.ID is empty a UUID is
// generated.
func (s *Store) SaveQA(ctx context.Context, rec *QARecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO qa_history (id, document_id, question, answer)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.DocumentID, rec.Question, rec.Answer,
	)
	if err != nil {
		return fmt.Errorf("inserting qa record: %w", err)
	}
	return nil
}

// ListQAByDocument returns a document's QA history, oldest first.
func (s *Store) ListQAByDocument(ctx context.Context, documentID string) ([]QARecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, question, answer, created_at
		FROM qa_history WHERE document_id = ? ORDER BY created_at ASC`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying qa history: %w", err)
	}
	defer rows.Close()

	var records []QARecord
	for rows.Next() {
		var (
			r  QARecord
			ts string
		)
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.Question, &r.Answer, &ts); err != nil {
			return nil, fmt.Errorf("scanning qa record: %w", err)
		}
		r.CreatedAt = parseTimestamp(ts)
		records = append(records, r)
	}
	return records, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u  User
		ts string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.CreatedAt = parseTimestamp(ts)
	return &u, nil
}

func scanDocument(sc scanner) (*Document, error) {
	var (
		d  Document
		ts string
	)
	err := sc.Scan(&d.ID, &d.UserID, &d.Filename, &d.FilePath, &d.Summary, &d.Domain, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	d.UploadedAt = parseTimestamp(ts)
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// SQLite's datetime('now') stores "2006-01-02 15:04:05"; values written by
// Go clients may carry the RFC 3339 form instead.
func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05Z", ts); err == nil {
		return t
	}
	return time.Time{}
}
