package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	advisoryAvailable bool
	objectStore       string
	db                Pinger
}

// NewService constructs a new health service. db may be nil when repositories are in memory.
func NewService(advisoryAvailable bool, objectStore string, db Pinger) *Service {
	return &Service{
		advisoryAvailable: advisoryAvailable,
		objectStore:       objectStore,
		db:                db,
	}
}

// Status is the health payload.
type Status struct {
	OK                bool   `json:"ok"`
	AdvisoryAvailable bool   `json:"advisoryAvailable"`
	Database          string `json:"database"`
	ObjectStore       string `json:"objectStore"`
}

// Status reports advisory availability and storage reachability.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{
		OK:                true,
		AdvisoryAvailable: s.advisoryAvailable,
		Database:          "memory",
		ObjectStore:       s.objectStore,
	}
	if s.db != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			st.OK = false
			st.Database = "unreachable"
		} else {
			st.Database = "postgres"
		}
	}
	return st
}
