package api

import (
	"context"

	"github.com/vytor/puzzlequest/internal/events"
	"github.com/vytor/puzzlequest/internal/services"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB                 Pinger
	Hub                *events.Hub
	UserService        services.UserService
	ProgressionService services.ProgressionService
	DailyService       services.DailyService
	ReportService      services.ReportService
	CORSOrigins        []string
}
