package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	goa "goa.design/goa/v3/pkg"

	"moblind/internal/inquiry"
	"moblind/internal/services"
	"moblind/internal/site"
)

const contactAnchor = "/#contact"

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, missing []inquiry.Field) {
	ctx := r.Context()
	state, err := s.svc.Form.State(ctx, sessionID(ctx))
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	page := site.Page(site.View{
		Dialog:  inquiry.State{Visibility: state.Visibility, Form: state.Form},
		Flash:   state.Flash,
		Missing: missing,
	})
	if err := page.Render(w); err != nil {
		s.logger.Warn("failed to render page", zap.String("request_id", requestID(ctx)), zap.Error(err))
	}
}

// pageError answers a browser form post that could not be applied.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := asServiceError(err)
	if svcErr.Fault {
		s.logger.Error("page request failed", zap.String("request_id", requestID(r.Context())), zap.Error(err))
	}
	code := services.StatusCode(svcErr.Name)
	http.Error(w, http.StatusText(code), code)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, nil)
}

func (s *Server) handleOpenPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := s.svc.Form.Open(ctx, sessionID(ctx)); err != nil {
		s.pageError(w, r, err)
		return
	}
	http.Redirect(w, r, contactAnchor, http.StatusSeeOther)
}

func (s *Server) handleClosePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	// Close shares the dialog form, so whatever was typed comes along.
	values := make(map[inquiry.Field]string, len(inquiry.Fields))
	for _, f := range inquiry.Fields {
		if r.PostForm.Has(string(f)) {
			values[f] = r.PostForm.Get(string(f))
		}
	}
	if _, err := s.svc.Form.CloseForm(ctx, sessionID(ctx), values); err != nil {
		s.pageError(w, r, err)
		return
	}
	http.Redirect(w, r, contactAnchor, http.StatusSeeOther)
}

func (s *Server) handleSubmitPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := inquiry.Form{
		FullName:           r.PostForm.Get(string(inquiry.FieldFullName)),
		PhoneNumber:        r.PostForm.Get(string(inquiry.FieldPhoneNumber)),
		EmailAddress:       r.PostForm.Get(string(inquiry.FieldEmailAddress)),
		ProjectDescription: r.PostForm.Get(string(inquiry.FieldProjectDescription)),
	}

	_, err := s.svc.Form.SubmitForm(ctx, sessionID(ctx), form)
	var svcErr *goa.ServiceError
	switch {
	case err == nil:
		http.Redirect(w, r, contactAnchor, http.StatusSeeOther)
	case errors.As(err, &svcErr) && svcErr.Name == services.ErrNameIncomplete:
		s.renderPage(w, r, http.StatusUnprocessableEntity, form.Missing())
	default:
		s.pageError(w, r, err)
	}
}
