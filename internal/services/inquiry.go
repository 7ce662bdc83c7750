package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"moblind/internal/domain"
	"moblind/internal/inquiry"
	"moblind/internal/logging"
	"moblind/internal/mail"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// InquiryResult is the staff view of a recorded inquiry
type InquiryResult struct {
	ID                 uint    `json:"id"`
	FullName           string  `json:"full_name"`
	PhoneNumber        string  `json:"phone_number"`
	EmailAddress       string  `json:"email_address"`
	ProjectDescription string  `json:"project_description"`
	Status             string  `json:"status"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          *string `json:"updated_at,omitempty"`
}

// ListInquiriesPayload filters and pages the inquiry list
type ListInquiriesPayload struct {
	Skip   int
	Limit  int
	Status string
}

// UpdateStatusPayload moves an inquiry to a new status
type UpdateStatusPayload struct {
	Status string `json:"status"`
}

// InquiryService records submitted inquiries and serves them to staff
type InquiryService struct {
	db         *gorm.DB
	dispatcher *mail.Dispatcher
	notifyTo   string
	logger     *zap.Logger
}

// NewInquiryService creates a new inquiry service. A nil dispatcher disables
// staff notifications.
func NewInquiryService(db *gorm.DB, dispatcher *mail.Dispatcher, notifyTo string, logger *zap.Logger) *InquiryService {
	return &InquiryService{
		db:         db,
		dispatcher: dispatcher,
		notifyTo:   notifyTo,
		logger:     logging.OrNop(logger).Named("inquiry"),
	}
}

// Record stores a submitted form and notifies staff in the background.
// submissionID identifies one submit attempt: recording it again returns the
// stored inquiry and sends nothing.
func (s *InquiryService) Record(ctx context.Context, submissionID, sessionID string, form inquiry.Form) (*domain.Inquiry, error) {
	var existing []domain.Inquiry
	if err := s.db.WithContext(ctx).Where("submission_id = ?", submissionID).Limit(1).Find(&existing).Error; err != nil {
		s.logger.Error("failed to look up submission", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, Internal("failed to save inquiry", err)
	}
	if len(existing) > 0 {
		s.logger.Info("inquiry already recorded", zap.Uint("id", existing[0].ID), zap.String("submission_id", submissionID))
		return &existing[0], nil
	}

	record := &domain.Inquiry{
		FullName:           strings.TrimSpace(form.FullName),
		PhoneNumber:        strings.TrimSpace(form.PhoneNumber),
		EmailAddress:       strings.TrimSpace(form.EmailAddress),
		ProjectDescription: strings.TrimSpace(form.ProjectDescription),
		Status:             domain.InquiryStatusNew,
		SessionID:          sessionID,
		SubmissionID:       submissionID,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		s.logger.Error("failed to record inquiry", zap.String("session_id", sessionID), zap.Error(err))
		return nil, Internal("failed to save inquiry", err)
	}
	s.logger.Info("inquiry recorded", zap.Uint("id", record.ID), zap.String("session_id", sessionID))

	s.notify(record)
	return record, nil
}

func (s *InquiryService) notify(record *domain.Inquiry) {
	if s.dispatcher == nil || s.notifyTo == "" {
		return
	}
	msg, err := mail.InquiryNotification(s.notifyTo, record)
	if err != nil {
		s.logger.Warn("failed to build notification email", zap.Uint("id", record.ID), zap.Error(err))
		return
	}
	if !s.dispatcher.Dispatch(msg) {
		s.logger.Warn("notification dropped: dispatcher closed", zap.Uint("id", record.ID))
	}
}

// List returns inquiries newest first
func (s *InquiryService) List(ctx context.Context, p *ListInquiriesPayload) ([]*InquiryResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if p.Skip < 0 {
		return nil, BadRequest("skip must not be negative")
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Offset(p.Skip).Limit(limit)
	if p.Status != "" {
		status := domain.InquiryStatus(p.Status)
		if !status.Valid() {
			return nil, BadRequest("unknown status %q", p.Status)
		}
		query = query.Where("status = ?", status)
	}

	var inquiries []domain.Inquiry
	if err := query.Find(&inquiries).Error; err != nil {
		s.logger.Error("failed to list inquiries", zap.Error(err))
		return nil, Internal("failed to fetch inquiries", err)
	}

	results := make([]*InquiryResult, len(inquiries))
	for i := range inquiries {
		results[i] = toInquiryResult(&inquiries[i])
	}
	return results, nil
}

// Get returns one inquiry
func (s *InquiryService) Get(ctx context.Context, id uint) (*InquiryResult, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInquiryResult(record), nil
}

// UpdateStatus moves an inquiry to p.Status
func (s *InquiryService) UpdateStatus(ctx context.Context, id uint, p *UpdateStatusPayload) (*InquiryResult, error) {
	status := domain.InquiryStatus(p.Status)
	if !status.Valid() {
		return nil, BadRequest("unknown status %q", p.Status)
	}

	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Status = status
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		s.logger.Error("failed to update inquiry status", zap.Uint("id", id), zap.Error(err))
		return nil, Internal("failed to update inquiry", err)
	}
	s.logger.Info("inquiry status updated", zap.Uint("id", id), zap.String("status", string(status)))
	return toInquiryResult(record), nil
}

func (s *InquiryService) find(ctx context.Context, id uint) (*domain.Inquiry, error) {
	var record domain.Inquiry
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(fmt.Sprintf("inquiry %d not found", id))
		}
		return nil, Internal("failed to fetch inquiry", err)
	}
	return &record, nil
}

func toInquiryResult(inq *domain.Inquiry) *InquiryResult {
	result := &InquiryResult{
		ID:                 inq.ID,
		FullName:           inq.FullName,
		PhoneNumber:        inq.PhoneNumber,
		EmailAddress:       inq.EmailAddress,
		ProjectDescription: inq.ProjectDescription,
		Status:             string(inq.Status),
		CreatedAt:          inq.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inq.UpdatedAt != nil {
		updated := inq.UpdatedAt.UTC().Format(time.RFC3339)
		result.UpdatedAt = &updated
	}
	return result
}
