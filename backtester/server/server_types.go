package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/turbo/newton/backtester/evaluation"
	"github.com/turbo/newton/backtester/statistics"
	"github.com/turbo/newton/backtester/strategy"
)

var (
	errNilManager = errors.New("nil task manager")
	errInvalidID  = errors.New("invalid run id")
)

// Manager is the run state the server reports on
type Manager interface {
	List() []strategy.Summary
	GetSummary(id uuid.UUID) (strategy.Summary, error)
	Evaluations(ctx context.Context, id uuid.UUID) ([]evaluation.Snapshot, error)
	Results() []statistics.Result
	Stop() error
}

// Route maps a method and path to a handler
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Server serves the status of running backtests over HTTP
type Server struct {
	manager Manager
	server  *http.Server
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StopResponse is the body of a successful stop request
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
