package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/catsuniversity/admissions-chat/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'bot',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, created_at);

	CREATE TABLE IF NOT EXISTS followups (
		chat_id TEXT PRIMARY KEY,
		student_email TEXT,
		student_phone TEXT,
		preferred_time TEXT,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateChat inserts a new chat row.
func (s *SQLiteStore) CreateChat(ctx context.Context, chat *domain.Chat) error {
	query := `INSERT INTO chats (id, status, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		chat.ID, string(chat.Status), chat.CreatedAt.Unix(), chat.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

// GetChatStatus retrieves the current status of a chat.
func (s *SQLiteStore) GetChatStatus(ctx context.Context, chatID string) (domain.Status, error) {
	row := s.db.QueryRowContext(ctx, `SELECT status FROM chats WHERE id = ?`, chatID)

	var status string
	err := row.Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrChatNotFound
	}
	if err != nil {
		return "", fmt.Errorf("scan chat status: %w", err)
	}
	return domain.Status(status), nil
}

// UpdateChatStatus sets the status of a chat.
func (s *SQLiteStore) UpdateChatStatus(ctx context.Context, chatID string, status domain.Status) error {
	query := `UPDATE chats SET status = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, string(status), time.Now().Unix(), chatID)
	if err != nil {
		return fmt.Errorf("update chat status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrChatNotFound
	}
	return nil
}

// InsertMessage appends a message and fills in its assigned ID.
func (s *SQLiteStore) InsertMessage(ctx context.Context, msg *domain.Message) error {
	query := `INSERT INTO messages (chat_id, sender, content, created_at) VALUES (?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query,
		msg.ChatID, string(msg.Sender), msg.Content, msg.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get message id: %w", err)
	}
	msg.ID = id
	return nil
}

// ListMessages returns all messages of a chat in creation order.
func (s *SQLiteStore) ListMessages(ctx context.Context, chatID string) ([]*domain.Message, error) {
	query := `
		SELECT id, chat_id, sender, content, created_at
		FROM messages WHERE chat_id = ?
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close message rows", "error", closeErr)
		}
	}()

	var messages []*domain.Message
	for rows.Next() {
		var msg domain.Message
		var sender string
		var createdAt int64

		if err := rows.Scan(&msg.ID, &msg.ChatID, &sender, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}

		msg.Sender = domain.Sender(sender)
		msg.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// ListChats returns all chats joined with their follow-up records.
func (s *SQLiteStore) ListChats(ctx context.Context) ([]*domain.ChatSummary, error) {
	query := `
		SELECT c.id, c.status, c.created_at,
		       f.student_email, f.student_phone, f.preferred_time
		FROM chats c
		LEFT JOIN followups f ON f.chat_id = c.id
		ORDER BY c.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close chat rows", "error", closeErr)
		}
	}()

	var chats []*domain.ChatSummary
	for rows.Next() {
		var c domain.ChatSummary
		var status string
		var createdAt int64
		var email, phone, preferred sql.NullString

		if err := rows.Scan(&c.ID, &status, &createdAt, &email, &phone, &preferred); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}

		c.Status = domain.Status(status)
		c.CreatedAt = time.Unix(createdAt, 0)
		c.StudentEmail = email.String
		c.StudentPhone = phone.String
		c.PreferredTime = preferred.String
		chats = append(chats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return chats, nil
}

// UpsertFollowup creates or replaces the follow-up record of a chat.
func (s *SQLiteStore) UpsertFollowup(ctx context.Context, f *domain.Followup) error {
	query := `
	INSERT INTO followups (chat_id, student_email, student_phone, preferred_time, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(chat_id) DO UPDATE SET
		student_email = excluded.student_email,
		student_phone = excluded.student_phone,
		preferred_time = excluded.preferred_time,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		f.ChatID, nullable(f.StudentEmail), nullable(f.StudentPhone),
		nullable(f.PreferredTime), f.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert followup: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
