package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"moblind/internal/inquiry"
	"moblind/internal/logging"
	"moblind/internal/metrics"
	"moblind/internal/session"
)

// FormState is the visitor-facing view of an inquiry dialog
type FormState struct {
	Visibility inquiry.Visibility    `json:"visibility"`
	Form       inquiry.Form          `json:"form"`
	Missing    []inquiry.Field       `json:"missing"`
	Flash      *inquiry.Notification `json:"notification,omitempty"`
}

// SubmitResult is returned by a successful submit
type SubmitResult struct {
	Notification inquiry.Notification `json:"notification"`
	InquiryID    uint                 `json:"inquiry_id"`
	State        *FormState           `json:"state"`
}

// SetFieldPayload carries one keystroke's worth of input
type SetFieldPayload struct {
	Value string `json:"value"`
}

// FormService applies inquiry dialog operations to a visitor's session
type FormService struct {
	sessions  session.Store
	inquiries *InquiryService
	logger    *zap.Logger
}

// NewFormService creates a new form service
func NewFormService(sessions session.Store, inquiries *InquiryService, logger *zap.Logger) *FormService {
	return &FormService{
		sessions:  sessions,
		inquiries: inquiries,
		logger:    logging.OrNop(logger).Named("form"),
	}
}

func stateOf(sess *session.Session, flash *inquiry.Notification) *FormState {
	form := sess.Controller.Form()
	missing := form.Missing()
	if missing == nil {
		missing = []inquiry.Field{}
	}
	return &FormState{
		Visibility: sess.Controller.Visibility(),
		Form:       form,
		Missing:    missing,
		Flash:      flash,
	}
}

// State returns the dialog state, consuming any pending notification
func (s *FormService) State(ctx context.Context, sessionID string) (*FormState, error) {
	var flash *inquiry.Notification
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		flash = sess.TakeFlash()
		return nil
	})
	if err != nil {
		return nil, fromFormError(err)
	}
	return stateOf(sess, flash), nil
}

// Open shows the dialog
func (s *FormService) Open(ctx context.Context, sessionID string) (*FormState, error) {
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Controller.Open()
		return nil
	})
	if err != nil {
		return nil, fromFormError(err)
	}
	metrics.RecordFormTransition("open")
	return stateOf(sess, nil), nil
}

// Close hides the dialog, keeping the entered values
func (s *FormService) Close(ctx context.Context, sessionID string) (*FormState, error) {
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Controller.Close()
		return nil
	})
	if err != nil {
		return nil, fromFormError(err)
	}
	metrics.RecordFormTransition("close")
	return stateOf(sess, nil), nil
}

// SetField replaces one field's value
func (s *FormService) SetField(ctx context.Context, sessionID, name string, p *SetFieldPayload) (*FormState, error) {
	field, err := inquiry.ParseField(name)
	if err != nil {
		return nil, fromFormError(err)
	}
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		return sess.Controller.SetField(field, p.Value)
	})
	if err != nil {
		return nil, fromFormError(err)
	}
	metrics.RecordFormTransition("set_field")
	return stateOf(sess, nil), nil
}

// CloseForm hides the dialog after applying values posted with the close
// request, so a browser without scripts keeps what was typed. Only fields
// present in values are changed.
func (s *FormService) CloseForm(ctx context.Context, sessionID string, values map[inquiry.Field]string) (*FormState, error) {
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		c := sess.Controller
		if c.IsOpen() {
			for _, f := range inquiry.Fields {
				if v, ok := values[f]; ok {
					if err := c.SetField(f, v); err != nil {
						return err
					}
				}
			}
		}
		c.Close()
		return nil
	})
	if err != nil {
		return nil, fromFormError(err)
	}
	metrics.RecordFormTransition("close")
	return stateOf(sess, nil), nil
}

// Submit submits the dialog's current values
func (s *FormService) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	return s.submit(ctx, sessionID, nil, false)
}

// SubmitForm opens the dialog, sets all four fields from a posted form and
// submits them. The posted values are kept even when the submit is blocked,
// and the confirmation is left as a flash for the next page render.
func (s *FormService) SubmitForm(ctx context.Context, sessionID string, form inquiry.Form) (*SubmitResult, error) {
	return s.submit(ctx, sessionID, &form, true)
}

// submissionID names one submit attempt: the same session, accepted-submit
// count and values always give the same id.
func submissionID(sessionID string, submitted uint64, f inquiry.Form) string {
	name := strings.Join([]string{
		sessionID,
		strconv.FormatUint(submitted, 10),
		f.FullName,
		f.PhoneNumber,
		f.EmailAddress,
		f.ProjectDescription,
	}, "\x00")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// submit runs in three steps. The first checks the dialog and saves any
// posted values; the inquiry is then recorded outside the session store; the
// last step closes the dialog. A failure before the last step leaves the
// dialog open with its values, and a retry records under the same
// submission id, so nothing is stored or mailed twice.
func (s *FormService) submit(ctx context.Context, sessionID string, posted *inquiry.Form, flash bool) (*SubmitResult, error) {
	var (
		pending   inquiry.Form
		id        string
		submitErr error
	)
	_, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		submitErr = nil
		c := sess.Controller
		if posted != nil {
			c.Open()
			for _, f := range inquiry.Fields {
				if err := c.SetField(f, posted.Get(f)); err != nil {
					return err
				}
			}
		}
		err := c.Check()
		var incomplete *inquiry.IncompleteError
		if errors.As(err, &incomplete) {
			// Blocked submit: keep whatever was typed
			submitErr = err
			return nil
		}
		if err != nil {
			return err
		}
		pending = c.Form()
		id = submissionID(sessionID, sess.Submitted, pending)
		return nil
	})
	switch {
	case err != nil:
		return nil, s.submitFailed(sessionID, err)
	case submitErr != nil:
		metrics.RecordSubmission("incomplete")
		s.logger.Debug("inquiry submit blocked", zap.String("session_id", sessionID), zap.Error(submitErr))
		return nil, fromFormError(submitErr)
	}

	recorded, err := s.inquiries.Record(ctx, id, sessionID, pending)
	if err != nil {
		return nil, s.submitFailed(sessionID, err)
	}

	notification := inquiry.Confirmation()
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		c := sess.Controller
		if submissionID(sessionID, sess.Submitted, c.Form()) != id || !c.IsOpen() {
			// Finished by a concurrent request, or edited since the check.
			// The inquiry is recorded either way; leave the dialog alone.
			return nil
		}
		sub, err := c.Submit()
		if err != nil {
			return err
		}
		sess.Submitted++
		notification = sub.Notification
		if flash {
			n := sub.Notification
			sess.Flash = &n
		}
		return nil
	})
	if err != nil {
		return nil, s.submitFailed(sessionID, err)
	}

	metrics.RecordFormTransition("submit")
	metrics.RecordSubmission("accepted")
	return &SubmitResult{
		Notification: notification,
		InquiryID:    recorded.ID,
		State:        stateOf(sess, nil),
	}, nil
}

func (s *FormService) submitFailed(sessionID string, err error) error {
	metrics.RecordSubmission("failed")
	s.logger.Warn("inquiry submit failed", zap.String("session_id", sessionID), zap.Error(err))
	return fromFormError(err)
}
