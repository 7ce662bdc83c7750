package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"moblind/internal/services"
)

func (s *Server) handleFormState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := s.svc.Form.State(ctx, sessionID(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, state)
}

func (s *Server) handleFormOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := s.svc.Form.Open(ctx, sessionID(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, state)
}

func (s *Server) handleFormClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := s.svc.Form.Close(ctx, sessionID(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, state)
}

func (s *Server) handleFormSetField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p services.SetFieldPayload
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	state, err := s.svc.Form.SetField(ctx, sessionID(ctx), s.mux.Vars(r)["name"], &p)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, state)
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := s.svc.Form.Submit(ctx, sessionID(ctx))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p services.LoginPayload
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	result, err := s.svc.Auth.Login(ctx, &p)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.BadRequest("%s must be an integer", name)
	}
	return v, nil
}

func (s *Server) pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(s.mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, services.BadRequest("invalid inquiry id")
	}
	return uint(id), nil
}

func (s *Server) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	skip, err := queryInt(r, "skip")
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	results, err := s.svc.Inquiries.List(ctx, &services.ListInquiriesPayload{
		Skip:   skip,
		Limit:  limit,
		Status: r.URL.Query().Get("status"),
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, results)
}

func (s *Server) handleGetInquiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	result, err := s.svc.Inquiries.Get(ctx, id)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleUpdateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	var p services.UpdateStatusPayload
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(ctx, w, err)
		return
	}
	result, err := s.svc.Inquiries.UpdateStatus(ctx, id, &p)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.logger.Info("inquiry status changed",
		zap.Uint("id", id),
		zap.String("status", result.Status),
		zap.String("by", staffUser(ctx).Username))
	writeJSON(ctx, w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := s.svc.Health.Check(ctx)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	status := http.StatusOK
	if result.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(ctx, w, status, result)
}
