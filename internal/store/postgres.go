package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/catsuniversity/admissions-chat/internal/domain"
	_ "github.com/lib/pq"
)

//go:embed migrations.sql
var migrations embed.FS

// PostgresStore implements Repository using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres creates a new PostgreSQL-backed repository from a DSN.
func NewPostgres(databaseURL string) (Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("read migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("execute migrations: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateChat inserts a new chat row.
func (s *PostgresStore) CreateChat(ctx context.Context, chat *domain.Chat) error {
	query := `INSERT INTO chats (id, status, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	_, err := s.db.ExecContext(ctx, query,
		chat.ID, string(chat.Status), chat.CreatedAt, chat.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

// GetChatStatus retrieves the current status of a chat.
func (s *PostgresStore) GetChatStatus(ctx context.Context, chatID string) (domain.Status, error) {
	row := s.db.QueryRowContext(ctx, `SELECT status FROM chats WHERE id = $1`, chatID)

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
func (s *PostgresStore) UpdateChatStatus(ctx context.Context, chatID string, status domain.Status) error {
	query := `UPDATE chats SET status = $1, updated_at = now() WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, string(status), chatID)
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
func (s *PostgresStore) InsertMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (chat_id, sender, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		msg.ChatID, string(msg.Sender), msg.Content, msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns all messages of a chat in creation order.
func (s *PostgresStore) ListMessages(ctx context.Context, chatID string) ([]*domain.Message, error) {
	query := `
		SELECT id, chat_id, sender, content, created_at
		FROM messages WHERE chat_id = $1
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

		if err := rows.Scan(&msg.ID, &msg.ChatID, &sender, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}

		msg.Sender = domain.Sender(sender)
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// ListChats returns all chats joined with their follow-up records.
func (s *PostgresStore) ListChats(ctx context.Context) ([]*domain.ChatSummary, error) {
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
		var email, phone, preferred sql.NullString

		if err := rows.Scan(&c.ID, &status, &c.CreatedAt, &email, &phone, &preferred); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}

		c.Status = domain.Status(status)
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
func (s *PostgresStore) UpsertFollowup(ctx context.Context, f *domain.Followup) error {
	query := `
	INSERT INTO followups (chat_id, student_email, student_phone, preferred_time, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (chat_id) DO UPDATE SET
		student_email = excluded.student_email,
		student_phone = excluded.student_phone,
		preferred_time = excluded.preferred_time,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		f.ChatID, nullable(f.StudentEmail), nullable(f.StudentPhone),
		nullable(f.PreferredTime), f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert followup: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
