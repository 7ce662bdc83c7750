package design

import (
	. "goa.design/goa/v3/dsl"
)

var _ = API("moblind", func() {
	Title("Mo-Blind Solutions Site API")
	Description("Landing page inquiry dialog and staff inquiry inbox for Mo-Blind Solutions LLC")
	Version("1.0.0")
	Server("api", func() {
		Host("localhost", func() {
			URI("http://localhost:8000")
		})
	})
})

// Common error type; every error response carries a name, an id and a message
var ErrorBody = Type("ErrorBody", func() {
	Description("Error response")
	Attribute("name", String, "Error name", func() {
		Enum("bad_request", "incomplete", "unauthorized", "forbidden", "not_found", "conflict", "unavailable", "internal")
		Example("incomplete")
	})
	Attribute("id", String, "Error instance id")
	Attribute("message", String, "Error message", func() {
		Example("inquiry: required fields empty: phoneNumber")
	})
	Required("name", "id", "message")
})

// Health check
var _ = Service("health", func() {
	Description("Health check service")
	Method("check", func() {
		Result(HealthResult)
		HTTP(func() {
			GET("/health")
			Response(StatusOK)
		})
	})
})

var HealthResult = ResultType("HealthResult", func() {
	Attribute("status", String, "Service status", func() {
		Enum("healthy", "degraded")
		Example("healthy")
	})
	Attribute("service", String, "Service name", func() {
		Example("Mo-Blind Solutions Site")
	})
	Attribute("database", String, "Database reachability", func() {
		Enum("ok", "unreachable")
	})
	Required("status", "service", "database")
})

// Inquiry dialog, keyed by the visitor's session cookie
var _ = Service("inquiry_form", func() {
	Description("Open, fill, close and submit the visitor's inquiry dialog")
	Error("bad_request", ErrorBody)
	Error("incomplete", ErrorBody, "A required field is empty")
	Error("conflict", ErrorBody, "The dialog is closed")
	Error("unavailable", ErrorBody, "The session store is unreachable")

	HTTP(func() {
		Path("/api/v1/inquiry")
		Response("unavailable", StatusServiceUnavailable)
	})

	Method("state", func() {
		Description("Current dialog state; consumes a pending notification")
		Payload(SessionPayload)
		Result(FormState)
		HTTP(func() {
			GET("")
			Cookie("session_id:moblind_session")
			Response(StatusOK)
		})
	})

	Method("open", func() {
		Description("Show the dialog. Values entered before a close are kept.")
		Payload(SessionPayload)
		Result(FormState)
		HTTP(func() {
			POST("/open")
			Cookie("session_id:moblind_session")
			Response(StatusOK)
		})
	})

	Method("close", func() {
		Description("Hide the dialog without clearing the fields")
		Payload(SessionPayload)
		Result(FormState)
		HTTP(func() {
			POST("/close")
			Cookie("session_id:moblind_session")
			Response(StatusOK)
		})
	})

	Method("set_field", func() {
		Description("Replace one field's value verbatim")
		Payload(SetFieldPayload)
		Result(FormState)
		Error("bad_request")
		Error("conflict")
		HTTP(func() {
			PUT("/fields/{name}")
			Cookie("session_id:moblind_session")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
			Response("conflict", StatusConflict)
		})
	})

	Method("submit", func() {
		Description("Submit the dialog. On success it closes, the fields clear and the inquiry is recorded.")
		Payload(SessionPayload)
		Result(SubmitResult)
		Error("incomplete")
		Error("conflict")
		HTTP(func() {
			POST("/submit")
			Cookie("session_id:moblind_session")
			Response(StatusCreated)
			Response("incomplete", StatusUnprocessableEntity)
			Response("conflict", StatusConflict)
		})
	})
})

var SessionPayload = Type("SessionPayload", func() {
	Attribute("session_id", String, "Visitor session id", func() {
		Format(FormatUUID)
	})
})

var SetFieldPayload = Type("SetFieldPayload", func() {
	Extend(SessionPayload)
	Attribute("name", String, "Field name", func() {
		Enum("fullName", "phoneNumber", "emailAddress", "projectDescription")
	})
	Attribute("value", String, "New value, stored as typed")
	Required("name", "value")
})

var InquiryFields = Type("InquiryFields", func() {
	Attribute("fullName", String)
	Attribute("phoneNumber", String)
	Attribute("emailAddress", String)
	Attribute("projectDescription", String)
	Required("fullName", "phoneNumber", "emailAddress", "projectDescription")
})

var Notification = Type("Notification", func() {
	Attribute("title", String, func() {
		Example("Thank you for your interest!")
	})
	Attribute("description", String, func() {
		Example("We'll get back to you within 24 hours to discuss your project.")
	})
	Required("title", "description")
})

var FormState = ResultType("FormState", func() {
	Attribute("visibility", String, "Dialog state", func() {
		Enum("closed", "open")
	})
	Attribute("form", InquiryFields)
	Attribute("missing", ArrayOf(String), "Fields still empty, in display order")
	Attribute("notification", Notification, "Confirmation left by a page submit, shown once")
	Required("visibility", "form", "missing")
})

var SubmitResult = ResultType("SubmitResult", func() {
	Attribute("notification", Notification)
	Attribute("inquiry_id", UInt, "Recorded inquiry id")
	Attribute("state", FormState)
	Required("notification", "inquiry_id", "state")
})

// JWT Security
var JWTAuth = JWTSecurity("jwt", func() {
	Description("Staff bearer token")
	Scope("staff", "Read submitted inquiries")
	Scope("admin", "Admin access")
})

// Authentication service
var _ = Service("auth", func() {
	Description("Staff authentication")
	Error("bad_request", ErrorBody)
	Error("unauthorized", ErrorBody)

	Method("login", func() {
		Description("Authenticate a staff account and return a bearer token")
		Payload(LoginPayload)
		Result(LoginResult)
		Error("unauthorized")
		HTTP(func() {
			POST("/api/v1/auth/login")
			Response(StatusOK)
			Response("bad_request", StatusBadRequest)
			Response("unauthorized", StatusUnauthorized)
		})
	})
})

var LoginPayload = Type("LoginPayload", func() {
	Attribute("username", String, "Username", func() {
		MinLength(1)
		Example("admin")
	})
	Attribute("password", String, "Password", func() {
		MinLength(1)
	})
	Required("username", "password")
})

var LoginResult = ResultType("LoginResult", func() {
	Attribute("access_token", String, "JWT access token")
	Attribute("token_type", String, "Token type", func() {
		Default("bearer")
		Example("bearer")
	})
	Required("access_token", "token_type")
})

// Inquiry inbox for staff
var _ = Service("inquiries", func() {
	Description("Submitted inquiries")
	Security(JWTAuth, func() {
		Scope("staff")
	})
	Error("bad_request", ErrorBody)
	Error("unauthorized", ErrorBody)
	Error("forbidden", ErrorBody)
	Error("not_found", ErrorBody)

	HTTP(func() {
		Path("/api/v1/inquiries")
		Response("bad_request", StatusBadRequest)
		Response("unauthorized", StatusUnauthorized)
		Response("forbidden", StatusForbidden)
	})

	Method("list", func() {
		Description("List inquiries newest first")
		Payload(ListInquiriesPayload)
		Result(ArrayOf(InquiryResult))
		HTTP(func() {
			GET("")
			Param("skip")
			Param("limit")
			Param("status")
			Response(StatusOK)
		})
	})

	Method("get", func() {
		Description("Get one inquiry")
		Payload(GetInquiryPayload)
		Result(InquiryResult)
		Error("not_found")
		HTTP(func() {
			GET("/{id}")
			Response(StatusOK)
			Response("not_found", StatusNotFound)
		})
	})

	Method("update_status", func() {
		Description("Move an inquiry to a new status")
		Payload(UpdateStatusPayload)
		Result(InquiryResult)
		Error("not_found")
		HTTP(func() {
			PATCH("/{id}/status")
			Response(StatusOK)
			Response("not_found", StatusNotFound)
		})
	})
})

var inquiryStatus = func() {
	Enum("new", "read", "replied")
}

var ListInquiriesPayload = Type("ListInquiriesPayload", func() {
	Token("token", String, "JWT token")
	Attribute("skip", Int, "Skip records", func() {
		Default(0)
		Minimum(0)
	})
	Attribute("limit", Int, "Limit records", func() {
		Default(50)
		Minimum(1)
		Maximum(200)
	})
	Attribute("status", String, "Only inquiries with this status", inquiryStatus)
})

var GetInquiryPayload = Type("GetInquiryPayload", func() {
	Token("token", String, "JWT token")
	Attribute("id", UInt, "Inquiry ID")
	Required("id")
})

var UpdateStatusPayload = Type("UpdateStatusPayload", func() {
	Token("token", String, "JWT token")
	Attribute("id", UInt, "Inquiry ID")
	Attribute("status", String, "New status", inquiryStatus)
	Required("id", "status")
})

var InquiryResult = ResultType("InquiryResult", func() {
	Attribute("id", UInt, "Inquiry ID")
	Attribute("full_name", String)
	Attribute("phone_number", String)
	Attribute("email_address", String)
	Attribute("project_description", String)
	Attribute("status", String, inquiryStatus)
	Attribute("created_at", String, func() {
		Format(FormatDateTime)
	})
	Attribute("updated_at", String, func() {
		Format(FormatDateTime)
	})
	Required("id", "full_name", "phone_number", "email_address", "project_description", "status", "created_at")
})
