package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/happyhackingspace/stayprice"
	"github.com/happyhackingspace/stayprice/internal/history"
	"github.com/happyhackingspace/stayprice/listing"
	"github.com/happyhackingspace/stayprice/regress"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type response struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, resp response) {
	resp.RequestID = RequestID(r.Context())
	resp.Timestamp = time.Now().UTC()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

func writeData(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, response{Error: &apiError{Code: code, Message: message}})
}

// decodeInput reads a listing input, answering the request itself on
// failure.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*listing.Input, bool) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	var in listing.Input
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, r, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
		case errors.Is(err, io.EOF):
			writeError(w, r, http.StatusBadRequest, "invalid_json", "empty request body")
		default:
			writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		}
		return nil, false
	}
	return &in, true
}

// warnings lists the input problems the pipeline tolerated.
func warnings(in *listing.Input) []string {
	err := in.Validate()
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

type predictResponse struct {
	*stayprice.Prediction
	ID       string   `json:"id,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	pred, err := s.predictor.Predict(in)
	if err != nil {
		slog.Error("Prediction failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, "prediction_failed", err.Error())
		return
	}

	resp := predictResponse{Prediction: pred, Warnings: warnings(in)}
	if s.opts.History != nil {
		rec, err := history.NewRecord(in, pred.Price, s.predictor.Metadata().Name)
		if err == nil {
			err = s.opts.History.Save(r.Context(), rec)
		}
		if err != nil {
			slog.Warn("Failed to record prediction", "error", err, "request_id", RequestID(r.Context()))
		} else {
			resp.ID = rec.ID
		}
	}
	writeData(w, r, resp)
}

type featuresResponse struct {
	Row      *listing.Row       `json:"row,omitempty"`
	Record   map[string]float64 `json:"record,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	resp := featuresResponse{Warnings: warnings(in)}
	if r.URL.Query().Get("all") == "true" {
		resp.Record = s.predictor.Record(in)
	} else {
		row := s.predictor.Features(in)
		resp.Row = &row
	}
	writeData(w, r, resp)
}

type schemaResponse struct {
	Columns  []string           `json:"columns"`
	Defaults map[string]float64 `json:"defaults"`
	Metadata regress.Metadata   `json:"metadata"`
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, schemaResponse{
		Columns:  s.predictor.Columns(),
		Defaults: s.predictor.Defaults(),
		Metadata: s.predictor.Metadata(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, map[string]any{
		"status":   "ok",
		"version":  s.opts.Version,
		"model":    s.predictor.Metadata(),
		"features": len(s.predictor.Columns()),
	})
}
