// Package inquiry implements the state machine behind the site's inquiry
// dialog. A Controller is either closed or open; while open it collects the
// four required fields and a successful submit closes it, clears the fields
// and hands back the confirmation to show the visitor.
//
// A Controller is not safe for concurrent use. Callers that share one between
// requests serialise access themselves (see internal/session).
package inquiry

// Visibility is the dialog state.
type Visibility string

const (
	Closed Visibility = "closed"
	Open   Visibility = "open"
)

const (
	NotificationTitle       = "Thank you for your interest!"
	NotificationDescription = "We'll get back to you within 24 hours to discuss your project."
)

// Notification is the transient confirmation produced by a successful submit.
// Rendering it is left to the caller.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Confirmation returns the fixed notification shown after a submit.
func Confirmation() Notification {
	return Notification{
		Title:       NotificationTitle,
		Description: NotificationDescription,
	}
}

// Submission is the result of a successful submit: the values that were
// entered and the notification for the visitor.
type Submission struct {
	Inquiry      Form
	Notification Notification
}

// State is the serialisable snapshot of a Controller.
type State struct {
	Visibility Visibility `json:"visibility"`
	Form       Form       `json:"form"`
}

// Controller drives the inquiry dialog.
type Controller struct {
	visibility Visibility
	form       Form
}

// NewController returns a closed controller with empty fields.
func NewController() *Controller {
	return &Controller{visibility: Closed}
}

// Restore rebuilds a controller from a snapshot. Unknown visibility values
// are treated as closed.
func Restore(s State) *Controller {
	c := &Controller{visibility: s.Visibility, form: s.Form}
	if c.visibility != Open {
		c.visibility = Closed
	}
	return c
}

// Snapshot returns the controller's current state.
func (c *Controller) Snapshot() State {
	return State{Visibility: c.visibility, Form: c.form}
}

// Visibility returns the dialog state.
func (c *Controller) Visibility() Visibility { return c.visibility }

// IsOpen reports whether the dialog is open.
func (c *Controller) IsOpen() bool { return c.visibility == Open }

// Form returns a copy of the current field values.
func (c *Controller) Form() Form { return c.form }

// Open shows the dialog. Values entered before a previous Close are kept.
func (c *Controller) Open() {
	c.visibility = Open
}

// Close hides the dialog without touching the fields.
func (c *Controller) Close() {
	c.visibility = Closed
}

// SetField replaces the value of one field. The value is stored verbatim.
func (c *Controller) SetField(field Field, value string) error {
	if c.visibility != Open {
		return ErrNotOpen
	}
	if _, err := ParseField(string(field)); err != nil {
		return err
	}
	c.form.set(field, value)
	return nil
}

// Check reports whether Submit would succeed, without changing anything.
func (c *Controller) Check() error {
	if c.visibility != Open {
		return ErrNotOpen
	}
	if missing := c.form.Missing(); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}

// Submit accepts the inquiry when every field is non-empty. On success the
// dialog closes and the fields are cleared; on failure nothing changes.
func (c *Controller) Submit() (Submission, error) {
	if err := c.Check(); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		Inquiry:      c.form,
		Notification: Confirmation(),
	}
	c.visibility = Closed
	c.form = Form{}
	return sub, nil
}
