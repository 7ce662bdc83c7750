package inquiry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillAll(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.SetField(FieldFullName, "Jane Doe"))
	require.NoError(t, c.SetField(FieldPhoneNumber, "555-1234"))
	require.NoError(t, c.SetField(FieldEmailAddress, "jane@x.com"))
	require.NoError(t, c.SetField(FieldProjectDescription, "Need a CRM"))
}

func TestNewControllerStartsClosedAndEmpty(t *testing.T) {
	c := NewController()

	assert.Equal(t, Closed, c.Visibility())
	assert.True(t, c.Form().IsEmpty())
}

func TestSubmitCompleteForm(t *testing.T) {
	c := NewController()
	c.Open()
	fillAll(t, c)

	sub, err := c.Submit()
	require.NoError(t, err)

	assert.Equal(t, Closed, c.Visibility())
	assert.Equal(t, Form{}, c.Form())
	assert.Equal(t, "Thank you for your interest!", sub.Notification.Title)
	assert.Equal(t, Form{
		FullName:           "Jane Doe",
		PhoneNumber:        "555-1234",
		EmailAddress:       "jane@x.com",
		ProjectDescription: "Need a CRM",
	}, sub.Inquiry)
}

func TestSubmitBlockedWhenFieldMissing(t *testing.T) {
	c := NewController()
	c.Open()
	require.NoError(t, c.SetField(FieldFullName, "Jane Doe"))

	_, err := c.Submit()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncomplete))

	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []Field{FieldPhoneNumber, FieldEmailAddress, FieldProjectDescription}, incomplete.Missing)

	assert.Equal(t, Open, c.Visibility())
	assert.Equal(t, Form{FullName: "Jane Doe"}, c.Form())
}

func TestSubmitBlockedForEachSingleEmptyField(t *testing.T) {
	for _, empty := range Fields {
		t.Run(string(empty), func(t *testing.T) {
			c := NewController()
			c.Open()
			fillAll(t, c)
			require.NoError(t, c.SetField(empty, ""))
			before := c.Snapshot()

			_, err := c.Submit()
			require.ErrorIs(t, err, ErrIncomplete)
			assert.Equal(t, before, c.Snapshot())
		})
	}
}

func TestCheckLeavesStateAlone(t *testing.T) {
	c := NewController()
	assert.ErrorIs(t, c.Check(), ErrNotOpen)

	c.Open()
	require.NoError(t, c.SetField(FieldFullName, "Jane Doe"))
	assert.ErrorIs(t, c.Check(), ErrIncomplete)

	fillAll(t, c)
	require.NoError(t, c.Check())
	assert.True(t, c.IsOpen())
	assert.Equal(t, "Jane Doe", c.Form().FullName)
}

func TestCloseKeepsFields(t *testing.T) {
	c := NewController()
	c.Open()
	fillAll(t, c)
	before := c.Form()

	c.Close()

	assert.Equal(t, Closed, c.Visibility())
	assert.Equal(t, before, c.Form())
}

func TestCloseWhenClosedIsNoop(t *testing.T) {
	c := NewController()
	c.Close()
	c.Close()

	assert.Equal(t, State{Visibility: Closed}, c.Snapshot())
}

func TestReopenAfterCloseRetainsValues(t *testing.T) {
	c := NewController()
	c.Open()
	require.NoError(t, c.SetField(FieldEmailAddress, "jane@x.com"))
	c.Close()
	c.Open()

	assert.Equal(t, "jane@x.com", c.Form().EmailAddress)
}

func TestReopenAfterSubmitIsEmpty(t *testing.T) {
	c := NewController()
	c.Open()
	fillAll(t, c)
	_, err := c.Submit()
	require.NoError(t, err)

	c.Open()
	assert.True(t, c.Form().IsEmpty())
}

func TestSetFieldLastWriteWins(t *testing.T) {
	c := NewController()
	c.Open()
	for _, v := range []string{"J", "Ja", "Jan", "Jane"} {
		require.NoError(t, c.SetField(FieldFullName, v))
	}
	assert.Equal(t, "Jane", c.Form().FullName)
}

func TestSetFieldStoresValueVerbatim(t *testing.T) {
	c := NewController()
	c.Open()
	require.NoError(t, c.SetField(FieldEmailAddress, "  not-an-email "))
	assert.Equal(t, "  not-an-email ", c.Form().EmailAddress)
}

func TestSetFieldRejectsUnknownField(t *testing.T) {
	c := NewController()
	c.Open()

	err := c.SetField(Field("budget"), "10k")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.True(t, c.Form().IsEmpty())
}

func TestOperationsRequireOpenDialog(t *testing.T) {
	c := NewController()

	assert.ErrorIs(t, c.SetField(FieldFullName, "Jane"), ErrNotOpen)
	_, err := c.Submit()
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.Equal(t, Closed, c.Visibility())
}

func TestControllerIsReusable(t *testing.T) {
	c := NewController()
	for i := 0; i < 3; i++ {
		c.Open()
		fillAll(t, c)
		sub, err := c.Submit()
		require.NoError(t, err)
		assert.Equal(t, Confirmation(), sub.Notification)
		assert.Equal(t, Closed, c.Visibility())
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	c := NewController()
	c.Open()
	require.NoError(t, c.SetField(FieldProjectDescription, "Need a CRM"))

	restored := Restore(c.Snapshot())
	assert.Equal(t, c.Snapshot(), restored.Snapshot())

	bogus := Restore(State{Visibility: "half-open"})
	assert.Equal(t, Closed, bogus.Visibility())
}

func TestParseField(t *testing.T) {
	f, err := ParseField("phoneNumber")
	require.NoError(t, err)
	assert.Equal(t, FieldPhoneNumber, f)

	_, err = ParseField("PhoneNumber")
	assert.ErrorIs(t, err, ErrUnknownField)
}
