package mail

import (
	"fmt"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"moblind/internal/domain"
)

func inquiryHTML(inq *domain.Inquiry, submitted string) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    "New Inquiry",
		Language: "en",
		Body: []g.Node{
			Style("font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;"),
			Div(Style("max-width: 600px; margin: 0 auto; padding: 20px;"),
				H2(Style("color: #2563EB;"), g.Text("New Project Inquiry")),
				Div(Style("background: #F8FAFC; padding: 20px; border-radius: 8px; margin: 20px 0;"),
					P(Strong(g.Text("Name:")), g.Text(" "+inq.FullName)),
					P(Strong(g.Text("Email:")), g.Text(" "), A(Href("mailto:"+inq.EmailAddress), g.Text(inq.EmailAddress))),
					P(Strong(g.Text("Phone:")), g.Text(" "), A(Href("tel:"+inq.PhoneNumber), g.Text(inq.PhoneNumber))),
					P(Strong(g.Text("Submitted:")), g.Text(" "+submitted)),
				),
				Div(Style("background: #FFFFFF; padding: 20px; border-left: 4px solid #4F46E5; border-radius: 4px; margin: 20px 0;"),
					H3(Style("margin-top: 0;"), g.Text("Project Description")),
					P(Style("white-space: pre-wrap;"), g.Text(inq.ProjectDescription)),
				),
				P(Style("color: #64748B; font-size: 14px;"), g.Textf("Inquiry ID: #%d", inq.ID)),
			),
		},
	})
}

const submittedLayout = "January 2, 2006 at 3:04 PM MST"

// InquiryNotification builds the staff mail announcing a recorded inquiry.
func InquiryNotification(to string, inq *domain.Inquiry) (Message, error) {
	submitted := inq.CreatedAt.In(time.UTC).Format(submittedLayout)

	var html strings.Builder
	if err := inquiryHTML(inq, submitted).Render(&html); err != nil {
		return Message{}, fmt.Errorf("render inquiry notification: %w", err)
	}

	text := fmt.Sprintf(`New Project Inquiry

Name: %s
Email: %s
Phone: %s
Submitted: %s

Project Description:
%s

Inquiry ID: #%d`, inq.FullName, inq.EmailAddress, inq.PhoneNumber, submitted, inq.ProjectDescription, inq.ID)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("New inquiry from %s", singleLine(inq.FullName)),
		Text:    text,
		HTML:    html.String(),
	}, nil
}

// singleLine flattens s so it is safe inside a mail header.
func singleLine(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '\r' || r == '\n' {
			out[i] = ' '
		}
	}
	return string(out)
}
