package notifications

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	CreateNotification(ctx context.Context, recipientRole, ntype, title, body string) error
	ListNotifications(ctx context.Context, recipientRole string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientRole string) (int, error)
	MarkRead(ctx context.Context, recipientRole, notificationID string) error
	RoleEmails(ctx context.Context, role string) ([]string, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Notification struct {
	ID        string `json:"id"`
	Recipient string `json:"recipientRole"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt any    `json:"createdAt"`
}

func (s *Store) CreateNotification(ctx context.Context, recipientRole, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (recipient_role, type, title, body)
    VALUES ($1,$2,$3,$4)
  `, recipientRole, ntype, title, body)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, recipientRole string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, recipient_role, type, title, body, read_at IS NOT NULL, created_at
    FROM notifications
    WHERE recipient_role = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, recipientRole, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Type, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, recipientRole string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM notifications
    WHERE recipient_role = $1 AND read_at IS NULL
  `, recipientRole).Scan(&count)
	return count, err
}

func (s *Store) MarkRead(ctx context.Context, recipientRole, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE id = $1 AND recipient_role = $2
  `, notificationID, recipientRole)
	return err
}

func (s *Store) RoleEmails(ctx context.Context, role string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.email
    FROM users u
    JOIN profiles p ON p.user_id = u.id
    WHERE p.role = $1 AND u.status = 'active'
  `, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
