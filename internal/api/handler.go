package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"edadash/app"
	"edadash/domain/figure"
	"edadash/internal/errors"
	"edadash/internal/session"
)

// Handler serves the dashboard's JSON API: the column partition, plot
// dispatch and the dataset overview of the caller's session.
type Handler struct {
	dashboard  *app.DashboardService
	sessions   *session.Store
	cookieName string
	origins    []string
}

// NewHandler creates the API handler
func NewHandler(dashboard *app.DashboardService, sessions *session.Store, cookieName string, origins []string) *Handler {
	return &Handler{
		dashboard:  dashboard,
		sessions:   sessions,
		cookieName: cookieName,
		origins:    origins,
	}
}

// Router builds the chi router for /api
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if len(h.origins) > 0 {
		r.Use(cors.Handler(corsOptions(h.origins)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/schema", h.schema)
		r.Get("/summary", h.summary)
		r.Get("/kinds", h.kinds)
		r.Post("/plot", h.plot)
	})
	return r
}

// corsOptions allows the listed origins. Session cookies are only shared with
// an explicit list, never with "*".
func corsOptions(origins []string) cors.Options {
	credentials := true
	for _, o := range origins {
		if o == "*" {
			credentials = false
		}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: credentials,
		MaxAge:           300,
	}
}

type schemaResponse struct {
	Categorical      []string `json:"categorical"`
	Numerical        []string `json:"numerical"`
	Rows             int      `json:"rows"`
	CardinalityLimit int      `json:"cardinality_limit"`
}

func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	schema := h.dashboard.Columns(sess)
	writeJSON(w, http.StatusOK, schemaResponse{
		Categorical:      nonNil(schema.Categorical),
		Numerical:        nonNil(schema.Numerical),
		Rows:             sess.Current().Rows(),
		CardinalityLimit: h.dashboard.CardinalityLimit(),
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if sess.Current().IsEmpty() {
		writeError(w, errors.InvalidSelection(app.EmptyDatasetMessage))
		return
	}
	writeJSON(w, http.StatusOK, h.dashboard.Overview(sess))
}

type kindInfo struct {
	Kind    figure.PlotKind `json:"kind"`
	Columns int             `json:"columns"`
	Choices []string        `json:"choices"`
}

func (h *Handler) kinds(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	schema := h.dashboard.Columns(sess)
	out := make([]kindInfo, 0, len(figure.AllKinds()))
	for _, k := range figure.AllKinds() {
		out = append(out, kindInfo{Kind: k, Columns: k.ColumnCount(), Choices: nonNil(app.ColumnChoices(schema, k))})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) plot(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var sel figure.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeError(w, errors.InvalidInput("request body must be a JSON plot selection"))
		return
	}

	result, err := h.dashboard.Plot(r.Context(), sess, sel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// session resolves the caller's session from the request context, which the
// UI middleware fills, or else from the session cookie.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	if sess, ok := session.FromContext(r.Context()); ok {
		return sess, true
	}
	if c, err := r.Cookie(h.cookieName); err == nil {
		if sess, ok := h.sessions.Get(c.Value); ok {
			return sess, true
		}
	}
	writeJSON(w, http.StatusUnauthorized, errorResponse{Code: "NO_SESSION", Error: "no active session"})
	return nil, false
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("[API] encode %T: %v", v, err)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Code: errors.CodeInternalError, Error: "response could not be encoded"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[API] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), errorResponse{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}

// StatusFor maps an error to the HTTP status it is reported with
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidSelection, errors.CodeInvalidColumn, errors.CodeInsufficientData, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeIngestionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
