// Package gui holds the facades shared by the HTTP API and the command line.
// A facade owns the draw session state and turns user input into pipeline
// calls; transports only translate requests and responses.
package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ramonehamilton/MTG-Drawer/internal/events"
	"github.com/ramonehamilton/MTG-Drawer/internal/metrics"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cardlookup"
	"github.com/ramonehamilton/MTG-Drawer/internal/storage"
)

// Services contains the shared dependencies passed to each facade.
type Services struct {
	// Context for the application.
	Context context.Context

	// Lookup resolves card metadata through the session cache.
	Lookup *cardlookup.Service

	// Storage is the persistent metadata store. Nil when caching is disabled.
	Storage *storage.Service

	// Dispatcher receives session events. Optional.
	Dispatcher *events.EventDispatcher

	// Performance metrics. Optional.
	LookupMetrics *metrics.LookupMetrics
	DrawMetrics   *metrics.DrawMetrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (s *Services) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Services) dispatch(event events.Event) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(event)
	}
}

// Errors returned by facades. They are wrapped in *AppError with a message
// suitable for display.
var (
	ErrEmptyDecklist = errors.New("empty decklist")
	ErrNoDeck        = errors.New("no deck submitted")
	ErrSuperseded    = errors.New("submission superseded by a newer one")
	ErrInvalidInput  = errors.New("invalid input")
)

// User-facing validation messages.
const (
	MsgEmptyDeck        = "Deck cannot be empty!"
	MsgInvalidDrawCount = "Draw count must be between 1 and 10k"
)

// InvalidDrawCountMessage returns the draw count validation message for a
// configured maximum. Whole thousands are written as "10k".
func InvalidDrawCountMessage(maxDrawCount int) string {
	limit := fmt.Sprint(maxDrawCount)
	if maxDrawCount >= 1000 && maxDrawCount%1000 == 0 {
		limit = fmt.Sprintf("%dk", maxDrawCount/1000)
	}
	return "Draw count must be between 1 and " + limit
}

// AppError represents an application error with a user-friendly message.
type AppError struct {
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped error for errors.Is/As chain
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As chain.
func (e *AppError) Unwrap() error {
	return e.Err
}
