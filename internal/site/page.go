// Package site renders the public landing page and its inquiry dialog.
package site

import (
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"moblind/internal/inquiry"
)

// View is everything the page needs from the visitor's session.
type View struct {
	Dialog inquiry.State
	Flash  *inquiry.Notification
	// Missing lists fields to flag after a blocked submit.
	Missing []inquiry.Field
}

// Page renders the full landing page.
func Page(v View) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:       companyName + " | AI-Powered Business Solutions",
		Description: tagline,
		Language:    "en",
		Head: []g.Node{
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			Link(Rel("stylesheet"), Href("/static/site.css")),
		},
		Body: []g.Node{
			topbar(),
			g.If(v.Flash != nil, notification(v.Flash)),
			Main(
				hero(),
				servicesSection(),
				caseStudiesSection(),
				aboutSection(),
				contactSection(),
			),
			g.If(v.Dialog.Visibility == inquiry.Open, dialog(v.Dialog.Form, v.Missing)),
			pageFooter(),
		},
	})
}

func topbar() g.Node {
	return Nav(Class("topbar"),
		Span(Class("brand"), g.Text(companyName)),
		Div(Class("links"),
			A(Href("#services"), g.Text("Services")),
			A(Href("#case-studies"), g.Text("Case Studies")),
			A(Href("#about"), g.Text("About")),
			A(Href("#contact"), g.Text("Contact")),
		),
	)
}

func notification(n *inquiry.Notification) g.Node {
	if n == nil {
		return nil
	}
	return Div(Class("notification"), Role("status"),
		Strong(g.Text(n.Title)),
		P(g.Text(n.Description)),
	)
}

func hero() g.Node {
	return Section(Class("hero"),
		Span(Class("badge"), g.Text("AI-Powered Business Solutions")),
		H1(g.Text("Do More With"), Span(Class("accent"), g.Text(" Less"))),
		P(g.Text("We specialize in using the latest AI tools to create innovative solutions that help small businesses and nonprofits streamline operations and increase efficiency.")),
		Div(Class("actions"),
			A(Class("btn"), Href("#contact"), g.Text("Get Started")),
			A(Class("btn btn-outline"), Href("#case-studies"), g.Text("View Our Work")),
		),
	)
}

func cards(items []card) g.Node {
	return Div(Class("cards"),
		g.Group(g.Map(items, func(item card) g.Node {
			return Div(Class("card"),
				H3(g.Text(item.Title)),
				P(g.Text(item.Description)),
				g.If(len(item.Tags) > 0,
					Ul(Class("tags"), g.Group(g.Map(item.Tags, func(tag string) g.Node {
						return Li(g.Text(tag))
					}))),
				),
			)
		})),
	)
}

func servicesSection() g.Node {
	return Section(ID("services"),
		H2(g.Text("Our Services")),
		P(g.Text("Transform your operations with AI-powered solutions tailored to your unique needs")),
		cards(services),
	)
}

func caseStudiesSection() g.Node {
	return Section(ID("case-studies"),
		H2(g.Text("Success Stories")),
		P(g.Text("Real solutions that have transformed how our clients operate")),
		cards(caseStudies),
	)
}

func aboutSection() g.Node {
	return Section(ID("about"),
		H2(g.Text("About Mo-Blind Solutions")),
		P(g.Text(aboutIntro), Strong(g.Text("do more with less")), g.Text(" through innovative AI-powered solutions.")),
		P(g.Text(aboutMore)),
		Div(Class("approach"),
			H3(g.Text("Our Approach")),
			P(g.Text(approach)),
		),
	)
}

func contactSection() g.Node {
	return Section(ID("contact"),
		H2(g.Text("Ready to Transform Your Operations?")),
		P(g.Text("Let's discuss how we can help you do more with less. Contact us today for a consultation.")),
		Div(Class("contact-items"),
			Div(H3(g.Text("Email")), A(Href("mailto:"+contactEmail), g.Text(contactEmail))),
			Div(H3(g.Text("Phone")), A(Href("tel:"+contactTel), g.Text(contactPhone))),
			Div(H3(g.Text("Website")), A(Href("https://"+websiteHost), g.Text(websiteHost))),
			Div(H3(g.Text("AI Solutions")), P(g.Text("Custom & Scalable"))),
		),
		g.El("form", Method("post"), Action("/inquiry/open"),
			Button(Type("submit"), Class("btn btn-secondary"), g.Text("Start Your Project")),
		),
	)
}

func pageFooter() g.Node {
	return g.El("footer",
		Span(Class("brand"), g.Text(companyName)),
		P(g.Text(tagline)),
		P(Class("fine-print"), g.Text(copyright)),
	)
}
