package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moblind/internal/domain"
	"moblind/internal/inquiry"
	"moblind/internal/mail"
)

func recordN(t *testing.T, s *InquiryService, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		record, err := s.Record(context.Background(), uuid.NewString(), "session", inquiry.Form{
			FullName:           "Jane Doe",
			PhoneNumber:        "555-1234",
			EmailAddress:       "jane@x.com",
			ProjectDescription: "Need a CRM",
		})
		require.NoError(t, err)
		ids = append(ids, record.ID)
	}
	return ids
}

func TestRecordTrimsValues(t *testing.T) {
	s := NewInquiryService(newTestDB(t), nil, "", nil)

	record, err := s.Record(context.Background(), uuid.NewString(), "abc", inquiry.Form{
		FullName:           "  Jane Doe ",
		PhoneNumber:        "555-1234\n",
		EmailAddress:       " jane@x.com",
		ProjectDescription: "Need a CRM",
	})
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.Equal(t, "Jane Doe", record.FullName)
	assert.Equal(t, "555-1234", record.PhoneNumber)
	assert.Equal(t, "jane@x.com", record.EmailAddress)
}

func TestRecordSameSubmissionOnce(t *testing.T) {
	db := newTestDB(t)
	sender := &recordingSender{}
	dispatcher := mail.NewDispatcher(sender, nil)
	s := NewInquiryService(db, dispatcher, "info@mo-blind.com", nil)
	ctx := context.Background()
	submissionID := uuid.NewString()
	form := inquiry.Form{
		FullName:           "Jane Doe",
		PhoneNumber:        "555-1234",
		EmailAddress:       "jane@x.com",
		ProjectDescription: "Need a CRM",
	}

	first, err := s.Record(ctx, submissionID, "abc", form)
	require.NoError(t, err)
	again, err := s.Record(ctx, submissionID, "abc", form)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&domain.Inquiry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	dispatcher.Close()
	assert.Equal(t, 1, sender.count())
}

func TestListNewestFirstWithPaging(t *testing.T) {
	s := NewInquiryService(newTestDB(t), nil, "", nil)
	ids := recordN(t, s, 3)
	ctx := context.Background()

	all, err := s.List(ctx, &ListInquiriesPayload{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[0], all[2].ID)

	page, err := s.List(ctx, &ListInquiriesPayload{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	_, err = s.List(ctx, &ListInquiriesPayload{Skip: -1})
	requireServiceError(t, err, ErrNameBadRequest)
}

func TestListFiltersByStatus(t *testing.T) {
	s := NewInquiryService(newTestDB(t), nil, "", nil)
	ids := recordN(t, s, 2)
	ctx := context.Background()

	_, err := s.UpdateStatus(ctx, ids[0], &UpdateStatusPayload{Status: "replied"})
	require.NoError(t, err)

	replied, err := s.List(ctx, &ListInquiriesPayload{Status: "replied"})
	require.NoError(t, err)
	require.Len(t, replied, 1)
	assert.Equal(t, ids[0], replied[0].ID)
	assert.Equal(t, "replied", replied[0].Status)
	assert.NotNil(t, replied[0].UpdatedAt)

	_, err = s.List(ctx, &ListInquiriesPayload{Status: "archived"})
	requireServiceError(t, err, ErrNameBadRequest)
}

func TestGetAndUpdateStatusErrors(t *testing.T) {
	s := NewInquiryService(newTestDB(t), nil, "", nil)
	ids := recordN(t, s, 1)
	ctx := context.Background()

	got, err := s.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "new", got.Status)
	assert.Nil(t, got.UpdatedAt)

	_, err = s.Get(ctx, 999)
	requireServiceError(t, err, ErrNameNotFound)

	_, err = s.UpdateStatus(ctx, 999, &UpdateStatusPayload{Status: "read"})
	requireServiceError(t, err, ErrNameNotFound)

	_, err = s.UpdateStatus(ctx, ids[0], &UpdateStatusPayload{Status: "lost"})
	requireServiceError(t, err, ErrNameBadRequest)
}

func TestStatusCode(t *testing.T) {
	tests := map[string]int{
		ErrNameBadRequest:   400,
		ErrNameIncomplete:   422,
		ErrNameUnauthorized: 401,
		ErrNameForbidden:    403,
		ErrNameNotFound:     404,
		ErrNameConflict:     409,
		ErrNameUnavailable:  503,
		ErrNameInternal:     500,
		"anything else":     500,
	}
	for name, want := range tests {
		assert.Equal(t, want, StatusCode(name), name)
	}
}
