package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nluthra2001/cpusched/internal/logging"
	"github.com/nluthra2001/cpusched/internal/report"
	"github.com/nluthra2001/cpusched/internal/scenario"
	"github.com/nluthra2001/cpusched/internal/sched"
	"github.com/nluthra2001/cpusched/internal/sim"
)

// maxBodyBytes bounds every request body the API decodes.
const maxBodyBytes = 1 << 20

type createRequest struct {
	Algorithm string         `json:"algorithm"`
	Quantum   int            `json:"quantum"`
	Processes []sched.Params `json:"processes"`
	// Random, when positive, generates that many processes instead.
	Random int    `json:"random"`
	Seed   *int64 `json:"seed"`
}

type configRequest struct {
	Algorithm string `json:"algorithm"`
	Quantum   int    `json:"quantum"`
}

type stepRequest struct {
	Ticks int `json:"ticks"`
}

type simulationView struct {
	ID        string          `json:"id"`
	Algorithm sched.Algorithm `json:"algorithm"`
	Quantum   int             `json:"quantum"`
	Finished  bool            `json:"finished"`
	CreatedAt time.Time       `json:"created_at"`
	State     sched.Snapshot  `json:"state"`
	Gantt     []sim.Block     `json:"gantt"`
}

type stepView struct {
	simulationView
	// Executed holds one entry per tick run, "" for idle ticks.
	Executed []string `json:"executed"`
}

func viewOf(sess *session) simulationView {
	cfg := sess.sim.Config()
	return simulationView{
		ID:        sess.id,
		Algorithm: cfg.Algorithm,
		Quantum:   cfg.Quantum,
		Finished:  sess.sim.Finished(),
		CreatedAt: sess.created,
		State:     sess.sim.Snapshot(),
		Gantt:     sess.sim.Gantt(),
	}
}

// sessionHandler runs with the session lock held.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session)

func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, ok := s.sessions.get(id)
		if !ok {
			respondError(w, RequestIDFromContext(r.Context()), http.StatusNotFound,
				&APIError{Code: ErrNotFound, Message: fmt.Sprintf("simulation '%s' not found", id)})
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		h(w, r, sess)
	}
}

// decodeBody decodes an optional JSON body into v. An empty body is not an
// error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) schedConfig(algorithm string, quantum int) (sched.Config, error) {
	if algorithm == "" {
		algorithm = s.config.Algorithm
	}
	if quantum == 0 {
		quantum = s.config.Quantum
	}
	alg, err := sched.ParseAlgorithm(algorithm)
	if err != nil {
		return sched.Config{}, err
	}
	return sched.Config{Algorithm: alg, Quantum: quantum}, nil
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req createRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: "invalid JSON: " + err.Error()})
		return
	}
	if req.Random > scenario.MaxRandom {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation,
			Message: fmt.Sprintf("random must be at most %d", scenario.MaxRandom)})
		return
	}
	cfg, err := s.schedConfig(req.Algorithm, req.Quantum)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}

	procs := req.Processes
	switch {
	case req.Random > 0:
		seed := s.seed()
		if req.Seed != nil {
			seed = *req.Seed
		}
		procs = scenario.Random(rand.New(rand.NewSource(seed)), req.Random).Processes
	case procs == nil:
		procs = scenario.Default().Processes
	}

	simulation, err := sim.New(cfg, procs, sim.WithLogger(s.logger))
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	sess := s.sessions.add(simulation)
	s.logger.Info("simulation created", "id", sess.id, "algorithm", cfg.Algorithm.String(), "processes", len(procs))

	respondCreated(w, reqID, viewOf(sess))
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request, sess *session) {
	respondOK(w, RequestIDFromContext(r.Context()), viewOf(sess))
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		respondError(w, reqID, http.StatusNotFound, &APIError{Code: ErrNotFound, Message: fmt.Sprintf("simulation '%s' not found", id)})
		return
	}
	respondOK(w, reqID, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request, sess *session) {
	reqID := RequestIDFromContext(r.Context())
	var req configRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: "invalid JSON: " + err.Error()})
		return
	}
	cfg, err := s.schedConfig(req.Algorithm, req.Quantum)
	if err == nil {
		err = sess.sim.SetConfig(cfg)
	}
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, viewOf(sess))
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sess *session) {
	reqID := RequestIDFromContext(r.Context())
	req := stepRequest{Ticks: 1}
	if err := decodeBody(w, r, &req); err != nil || req.Ticks < 1 {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: "ticks must be a positive integer"})
		return
	}
	if limit := s.config.MaxTicks; limit > 0 && req.Ticks > limit {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation,
			Message: fmt.Sprintf("ticks must be at most %d", limit)})
		return
	}

	var executed []string
	for i := 0; i < req.Ticks; i++ {
		res, err := sess.sim.Step()
		if errors.Is(err, sim.ErrFinished) && i > 0 {
			break
		}
		if err != nil {
			respondErr(w, reqID, err)
			return
		}
		executed = append(executed, res.Executed)
	}
	respondOK(w, reqID, stepView{simulationView: viewOf(sess), Executed: executed})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sess *session) {
	reqID := RequestIDFromContext(r.Context())
	if err := sess.sim.Run(s.config.MaxTicks); err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, viewOf(sess))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request, sess *session) {
	reqID := RequestIDFromContext(r.Context())
	if err := sess.sim.Undo(); err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, viewOf(sess))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *session) {
	sess.sim.Reset()
	respondOK(w, RequestIDFromContext(r.Context()), viewOf(sess))
}

func (s *Server) handleAddProcess(w http.ResponseWriter, r *http.Request, sess *session) {
	reqID := RequestIDFromContext(r.Context())
	var p sched.Params
	if err := decodeBody(w, r, &p); err != nil {
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: "invalid JSON: " + err.Error()})
		return
	}
	proc, err := sess.sim.AddProcess(p)
	if err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondCreated(w, reqID, proc)
}

func (s *Server) handleRemoveProcess(w http.ResponseWriter, r *http.Request, sess *session) {
	reqID := RequestIDFromContext(r.Context())
	if err := sess.sim.RemoveProcess(chi.URLParam(r, "pid")); err != nil {
		respondErr(w, reqID, err)
		return
	}
	respondOK(w, reqID, viewOf(sess))
}

// handleReport returns the report document in the envelope, or the raw
// rendering for ?format=text and ?format=yaml.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, sess *session) {
	reqID := RequestIDFromContext(r.Context())
	doc := report.NewDocument(sess.sim)

	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "json":
		respondOK(w, reqID, doc)
	case "text", "yaml":
		contentType := "text/plain; charset=utf-8"
		if format == "yaml" {
			contentType = "application/yaml"
		}
		w.Header().Set("Content-Type", contentType)
		if err := report.Write(w, format, doc); err != nil {
			s.logger.Error("write report", "id", sess.id, logging.ErrAttr(err))
		}
	default:
		respondError(w, reqID, http.StatusBadRequest, &APIError{Code: ErrValidation, Message: fmt.Sprintf("unknown format %q", format)})
	}
}
