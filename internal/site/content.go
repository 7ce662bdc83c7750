package site

const (
	companyName  = "Mo-Blind Solutions LLC"
	contactEmail = "info@mo-blind.com"
	// 555-01xx is reserved for fictional use; replace with the published line.
	contactPhone = "(555) 010-0100"
	contactTel   = "+15550100100"
	websiteHost  = "solutions.mo-blind.com"
	tagline      = "Empowering organizations to do more with less through innovative AI solutions."
	copyright    = "© 2024 Mo-Blind Solutions LLC. All rights reserved."
)

type card struct {
	Title       string
	Description string
	Tags        []string
}

var services = []card{
	{
		Title:       "Process Automation",
		Description: "Eliminate redundant work and streamline your current processes with intelligent automation solutions.",
	},
	{
		Title:       "Fundraising Campaigns",
		Description: "Create data-driven fundraising campaigns that maximize donor engagement and contribution rates.",
	},
	{
		Title:       "Custom CRM Solutions",
		Description: "Build tailored customer and donor management systems that grow with your organization.",
	},
	{
		Title:       "AI Integration",
		Description: "Maximize your client base with intelligent tools that enhance decision-making and efficiency.",
	},
}

var caseStudies = []card{
	{
		Title:       "CRM Lite for Nonprofits",
		Description: "Comprehensive volunteer and donor management system with mass communication capabilities.",
		Tags:        []string{"Volunteer Tracking", "Donor Management", "Mass Communication", "Skills Tagging"},
	},
	{
		Title:       "Senior Medication Reminder",
		Description: "Smart medication management app with audio reminders and caregiver portal for family peace of mind.",
		Tags:        []string{"Audio Reminders", "Caregiver Portal", "Compliance Tracking", "Family Notifications"},
	},
	{
		Title:       "Grant Finder Tool",
		Description: "AI-powered grant discovery and application drafting system that matches nonprofits with relevant funding opportunities.",
	},
	{
		Title:       "VA Loan Calculator",
		Description: "Comprehensive tool for veterans to calculate remaining VA benefits, compare investments, and analyze cash flow, IRR, and NPV.",
	},
	{
		Title:       "Side Hustle Advisor",
		Description: "Intelligent questionnaire system that provides personalized side business recommendations based on individual circumstances and goals.",
	},
}

var (
	aboutIntro = "At Mo-Blind Solutions LLC, we believe in the power of intelligent automation to transform how organizations operate. Our mission is simple: help you "
	aboutMore  = "Whether you're looking to eliminate redundant work, streamline and document your current processes, create effective fundraising campaigns, or maximize your client base, we have the expertise and tools to assist you. Every solution we create is tailored to your unique needs and designed to grow with your organization."
	approach   = "We don't believe in one-size-fits-all solutions. Instead, we take the time to understand your specific challenges, workflows, and goals. Then we leverage cutting-edge AI tools and proven development practices to create solutions that not only solve your immediate problems but position you for future growth."
)
