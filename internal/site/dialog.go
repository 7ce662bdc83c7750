package site

import (
	"slices"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"moblind/internal/inquiry"
)

type fieldInput struct {
	field       inquiry.Field
	inputType   string
	placeholder string
}

var dialogFields = []fieldInput{
	{inquiry.FieldFullName, "text", "Your full name"},
	{inquiry.FieldPhoneNumber, "tel", "Your phone number"},
	{inquiry.FieldEmailAddress, "email", "you@example.com"},
	{inquiry.FieldProjectDescription, "", "Tell us about your project"},
}

func dialog(form inquiry.Form, missing []inquiry.Field) g.Node {
	return Div(Class("dialog-backdrop"),
		Div(Class("dialog"), Role("dialog"), Aria("modal", "true"), Aria("labelledby", "inquiry-title"),
			H2(ID("inquiry-title"), g.Text("Start Your Project")),
			P(g.Text("Tell us about your project and we'll get back to you within 24 hours.")),
			g.El("form", Method("post"), Action("/inquiry/submit"),
				g.Group(g.Map(dialogFields, func(f fieldInput) g.Node {
					return fieldRow(f, form.Get(f.field), slices.Contains(missing, f.field))
				})),
				Div(Class("dialog-actions"),
					Button(Type("submit"), Class("btn"), g.Text("Submit Inquiry")),
					Button(Type("submit"), Class("btn btn-outline"), FormAction("/inquiry/close"), FormNoValidate(),
						Aria("label", "Close"), g.Text("Close")),
				),
			),
		),
	)
}

func fieldRow(f fieldInput, value string, missing bool) g.Node {
	id := "inquiry-" + string(f.field)
	var control g.Node
	if f.inputType == "" {
		control = Textarea(ID(id), Name(string(f.field)), Required(), g.Attr("rows", "4"),
			Placeholder(f.placeholder), g.Text(value))
	} else {
		control = Input(ID(id), Name(string(f.field)), Type(f.inputType), Required(),
			Placeholder(f.placeholder), Value(value))
	}
	return Div(c.Classes{"field": true, "missing": missing},
		g.El("label", g.Attr("for", id), g.Text(f.field.Label()+" *")),
		control,
		g.If(missing, Span(Class("error"), g.Text(f.field.Label()+" is required"))),
	)
}
