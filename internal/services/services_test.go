package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	goa "goa.design/goa/v3/pkg"
	"gorm.io/gorm"

	"moblind/internal/config"
	"moblind/internal/database"
	"moblind/internal/mail"
	"moblind/internal/session"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Provider() string { return "recording" }

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{URL: "sqlite:///:memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db         *gorm.DB
	sender     *recordingSender
	dispatcher *mail.Dispatcher
	inquiries  *InquiryService
	form       *FormService
	sessionID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	sender := &recordingSender{}
	dispatcher := mail.NewDispatcher(sender, nil)
	t.Cleanup(dispatcher.Close)

	inquiries := NewInquiryService(db, dispatcher, "info@mo-blind.com", nil)
	return &fixture{
		db:         db,
		sender:     sender,
		dispatcher: dispatcher,
		inquiries:  inquiries,
		form:       NewFormService(session.NewMemoryStore(time.Hour, nil), inquiries, nil),
		sessionID:  session.NewID(),
	}
}

func requireServiceError(t *testing.T, err error, name string) {
	t.Helper()
	require.Error(t, err)
	var svcErr *goa.ServiceError
	require.True(t, errors.As(err, &svcErr), "expected *goa.ServiceError, got %T", err)
	require.Equal(t, name, svcErr.Name)
}
