package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	"github.com/turbo/newton/backtester/engine"
	evalrepo "github.com/turbo/newton/database/repository/evaluation"
	"github.com/turbo/newton/log"
)

const shutdownTimeout = 5 * time.Second

// New returns a server for the manager listening on listenAddress
func New(listenAddress string, manager Manager) (*Server, error) {
	if manager == nil {
		return nil, errNilManager
	}
	s := &Server{manager: manager}
	s.server = &http.Server{
		Addr:              listenAddress,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Router returns the routes served
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	routes := []Route{
		{"ListRuns", http.MethodGet, "/runs", s.listRuns},
		{"GetRun", http.MethodGet, "/runs/{id}", s.getRun},
		{"GetEvaluations", http.MethodGet, "/runs/{id}/evaluations", s.getEvaluations},
		{"GetStatistics", http.MethodGet, "/statistics", s.getStatistics},
		{"Stop", http.MethodPost, "/stop", s.stop},
	}
	for _, route := range routes {
		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(RESTLogger(route.HandlerFunc, route.Name))
	}
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		log.Infof(log.RESTSys, "Status server listening on http://%s", s.server.Addr)
		errs <- s.server.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RESTLogger logs the requests internally
func RESTLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inner.ServeHTTP(w, r)
		log.Debugf(log.RESTSys, "%s\t%s\t%s\t%s",
			r.Method,
			r.RequestURI,
			name,
			time.Since(start))
	})
}

// RESTfulJSONResponse outputs a JSON response of the response interface
func RESTfulJSONResponse(w http.ResponseWriter, status int, response any) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(response)
}

// RESTfulError prints the REST method and error
func RESTfulError(method string, err error) {
	log.Errorf(log.RESTSys, "RESTful %s: server failed to send JSON response. Error %s", method, err)
}

func respond(w http.ResponseWriter, r *http.Request, status int, response any) {
	if err := RESTfulJSONResponse(w, status, response); err != nil {
		RESTfulError(r.Method, err)
	}
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.manager.List())
}

// runID parses the run ID from the path, responding with a bad request when
// it is invalid
func runID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		respond(w, r, http.StatusBadRequest, ErrorResponse{Error: fmt.Errorf("%w: %w", errInvalidID, err).Error()})
		return uuid.Nil, false
	}
	return id, true
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrTaskNotFound), errors.Is(err, evalrepo.ErrNoEvaluationsFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrNotPersisted):
		status = http.StatusConflict
	}
	respond(w, r, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}
	sum, err := s.manager.GetSummary(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, sum)
}

func (s *Server) getEvaluations(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}
	snapshots, err := s.manager.Evaluations(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, snapshots)
}

func (s *Server) getStatistics(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.manager.Results())
}

func (s *Server) stop(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Stop(); err != nil {
		respond(w, r, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	log.Infoln(log.RESTSys, "Stop requested")
	respond(w, r, http.StatusOK, StopResponse{Stopped: true})
}
