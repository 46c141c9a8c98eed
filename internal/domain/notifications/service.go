package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: "no-reply@example.com"}
}

// NotifyRole records an in-app notification for every holder of the role and
// mails them if a mailer is configured. Email failures are logged, never
// surfaced: notification delivery must not fail the workflow step.
func (s *Service) NotifyRole(ctx context.Context, role, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, role, ntype, title, body); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}

	emails, err := s.store.RoleEmails(ctx, role)
	if err != nil {
		slog.Warn("notification email lookup failed", "role", role, "err", err)
		return nil
	}
	for _, email := range emails {
		if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, body); err != nil {
			slog.Warn("notification email send failed", "to", email, "err", err)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, role string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, role, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, role string) (int, error) {
	return s.store.CountUnread(ctx, role)
}

func (s *Service) MarkRead(ctx context.Context, role, notificationID string) error {
	return s.store.MarkRead(ctx, role, notificationID)
}
