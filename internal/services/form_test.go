package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moblind/internal/domain"
	"moblind/internal/inquiry"
	"moblind/internal/session"
	apperrors "moblind/pkg/errors"
)

func fillAll(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	values := map[inquiry.Field]string{
		inquiry.FieldFullName:           "Jane Doe",
		inquiry.FieldPhoneNumber:        "555-1234",
		inquiry.FieldEmailAddress:       "jane@x.com",
		inquiry.FieldProjectDescription: "Need a CRM",
	}
	for _, field := range inquiry.Fields {
		_, err := f.form.SetField(ctx, f.sessionID, string(field), &SetFieldPayload{Value: values[field]})
		require.NoError(t, err)
	}
}

func TestSubmitRecordsAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	fillAll(t, f)

	result, err := f.form.Submit(ctx, f.sessionID)
	require.NoError(t, err)

	assert.Equal(t, "Thank you for your interest!", result.Notification.Title)
	assert.Equal(t, inquiry.Closed, result.State.Visibility)
	assert.Equal(t, inquiry.Form{}, result.State.Form)
	assert.Nil(t, result.State.Flash)

	var stored domain.Inquiry
	require.NoError(t, f.db.First(&stored, result.InquiryID).Error)
	assert.Equal(t, "Jane Doe", stored.FullName)
	assert.Equal(t, "Need a CRM", stored.ProjectDescription)
	assert.Equal(t, domain.InquiryStatusNew, stored.Status)
	assert.Equal(t, f.sessionID, stored.SessionID)

	f.dispatcher.Close()
	assert.Equal(t, 1, f.sender.count())
}

func TestSubmitBlockedWhenIncomplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	_, err = f.form.SetField(ctx, f.sessionID, "fullName", &SetFieldPayload{Value: "Jane Doe"})
	require.NoError(t, err)

	_, err = f.form.Submit(ctx, f.sessionID)
	requireServiceError(t, err, ErrNameIncomplete)

	state, err := f.form.State(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.Open, state.Visibility)
	assert.Equal(t, inquiry.Form{FullName: "Jane Doe"}, state.Form)
	assert.Nil(t, state.Flash)

	var count int64
	require.NoError(t, f.db.Model(&domain.Inquiry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCloseKeepsEnteredValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	fillAll(t, f)

	state, err := f.form.Close(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.Closed, state.Visibility)
	assert.Equal(t, "Jane Doe", state.Form.FullName)
	assert.Empty(t, state.Missing)

	state, err = f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Need a CRM", state.Form.ProjectDescription)
}

func TestSetFieldErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.form.SetField(ctx, f.sessionID, "fullName", &SetFieldPayload{Value: "Jane"})
	requireServiceError(t, err, ErrNameConflict)

	_, err = f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	_, err = f.form.SetField(ctx, f.sessionID, "budget", &SetFieldPayload{Value: "10k"})
	requireServiceError(t, err, ErrNameBadRequest)
}

func TestSubmitWhenClosedConflicts(t *testing.T) {
	f := newFixture(t)

	_, err := f.form.Submit(context.Background(), f.sessionID)
	requireServiceError(t, err, ErrNameConflict)
}

func TestSubmitFormLeavesFlashOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.form.SubmitForm(ctx, f.sessionID, inquiry.Form{
		FullName:           "Jane Doe",
		PhoneNumber:        "555-1234",
		EmailAddress:       "jane@x.com",
		ProjectDescription: "Need a CRM",
	})
	require.NoError(t, err)

	state, err := f.form.State(ctx, f.sessionID)
	require.NoError(t, err)
	require.NotNil(t, state.Flash)
	assert.Equal(t, inquiry.NotificationTitle, state.Flash.Title)
	assert.Equal(t, inquiry.Closed, state.Visibility)

	state, err = f.form.State(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Nil(t, state.Flash)
}

func TestSubmitFormIncompleteKeepsPostedValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.form.SubmitForm(ctx, f.sessionID, inquiry.Form{FullName: "Jane Doe", EmailAddress: "jane@x.com"})
	requireServiceError(t, err, ErrNameIncomplete)

	state, err := f.form.State(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.Open, state.Visibility)
	assert.Equal(t, "jane@x.com", state.Form.EmailAddress)
	assert.Equal(t, []inquiry.Field{inquiry.FieldPhoneNumber, inquiry.FieldProjectDescription}, state.Missing)
}

func TestSubmitKeepsSessionWhenRecordingFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inquiries" WHERE submission_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "inquiries"`)).WillReturnError(errors.New("connection reset by peer"))

	inquiries := NewInquiryService(db, nil, "", nil)
	form := NewFormService(session.NewMemoryStore(time.Hour, nil), inquiries, nil)
	f := &fixture{form: form, sessionID: session.NewID()}
	ctx := context.Background()

	_, err = form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	fillAll(t, f)

	_, err = form.Submit(ctx, f.sessionID)
	requireServiceError(t, err, ErrNameInternal)

	state, err := form.State(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.Open, state.Visibility)
	assert.Equal(t, "Jane Doe", state.Form.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// flakyStore loses the save of its failAt-th update: fn runs, nothing is
// stored and the caller sees the store as unreachable.
type flakyStore struct {
	*session.MemoryStore
	calls  int
	failAt int
}

func (s *flakyStore) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	s.calls++
	if s.calls != s.failAt {
		return s.MemoryStore.Update(ctx, id, fn)
	}
	lost := apperrors.New(apperrors.ErrCodeUnavailable, "exec failed")
	_, err := s.MemoryStore.Update(ctx, id, func(sess *session.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		return lost
	})
	return nil, err
}

func TestSubmitRetryAfterLostSaveRecordsOnce(t *testing.T) {
	f := newFixture(t)
	store := &flakyStore{MemoryStore: session.NewMemoryStore(time.Hour, nil)}
	f.form = NewFormService(store, f.inquiries, nil)
	ctx := context.Background()

	_, err := f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	fillAll(t, f)

	// Lose the save that closes the dialog, after the inquiry is stored.
	store.calls, store.failAt = 0, 2
	_, err = f.form.Submit(ctx, f.sessionID)
	requireServiceError(t, err, ErrNameUnavailable)

	state, err := f.form.State(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.Open, state.Visibility)
	assert.Equal(t, "Jane Doe", state.Form.FullName)

	result, err := f.form.Submit(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, inquiry.Closed, result.State.Visibility)
	assert.Equal(t, inquiry.Form{}, result.State.Form)

	var count int64
	require.NoError(t, f.db.Model(&domain.Inquiry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	f.dispatcher.Close()
	assert.Equal(t, 1, f.sender.count())
}

func TestSubmitSameValuesTwiceRecordsTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 2; i++ {
		_, err := f.form.Open(ctx, f.sessionID)
		require.NoError(t, err)
		fillAll(t, f)
		result, err := f.form.Submit(ctx, f.sessionID)
		require.NoError(t, err)
		ids = append(ids, result.InquiryID)
	}
	assert.NotEqual(t, ids[0], ids[1])
}

func TestSubmitDoesNotHoldSessionStoreWhileRecording(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := session.NewID()
	otherServed := false
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:other_visitor", func(*gorm.DB) {
		done := make(chan error, 1)
		go func() {
			_, err := f.form.Open(ctx, other)
			done <- err
		}()
		select {
		case err := <-done:
			otherServed = err == nil
		case <-time.After(5 * time.Second):
		}
	}))

	_, err := f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	fillAll(t, f)
	_, err = f.form.Submit(ctx, f.sessionID)
	require.NoError(t, err)
	assert.True(t, otherServed, "another visitor was blocked while an inquiry was being recorded")
}

func TestCloseFormAppliesPostedValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	_, err = f.form.SetField(ctx, f.sessionID, "phoneNumber", &SetFieldPayload{Value: "555-1234"})
	require.NoError(t, err)

	state, err := f.form.CloseForm(ctx, f.sessionID, map[inquiry.Field]string{
		inquiry.FieldFullName:     "Jane Doe",
		inquiry.FieldEmailAddress: "jane@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, inquiry.Closed, state.Visibility)
	assert.Equal(t, inquiry.Form{FullName: "Jane Doe", PhoneNumber: "555-1234", EmailAddress: "jane@x.com"}, state.Form)

	state, err = f.form.Open(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", state.Form.FullName)
	assert.Equal(t, []inquiry.Field{inquiry.FieldProjectDescription}, state.Missing)
}

func TestCloseFormWhenClosedIgnoresValues(t *testing.T) {
	f := newFixture(t)

	state, err := f.form.CloseForm(context.Background(), f.sessionID, map[inquiry.Field]string{
		inquiry.FieldFullName: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, inquiry.Closed, state.Visibility)
	assert.True(t, state.Form.IsEmpty())
}
