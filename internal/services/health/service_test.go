package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		wantOK   bool
		wantDB   string
		advisory bool
	}{
		{name: "memory", db: nil, wantOK: true, wantDB: "memory", advisory: false},
		{name: "postgres up", db: stubPinger{}, wantOK: true, wantDB: "postgres", advisory: true},
		{name: "postgres down", db: stubPinger{err: errors.New("refused")}, wantOK: false, wantDB: "unreachable", advisory: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			st := NewService(tt.advisory, "local", tt.db).Status(context.Background())
			if st.OK != tt.wantOK || st.Database != tt.wantDB || st.AdvisoryAvailable != tt.advisory {
				t.Fatalf("unexpected status %+v", st)
			}
			if st.ObjectStore != "local" {
				t.Fatalf("unexpected object store %q", st.ObjectStore)
			}
		})
	}
}
