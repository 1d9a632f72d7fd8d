// Package audit exposes the vesting ledger read-only over HTTP for external
// auditing.
package audit

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/kilianp07/vesting/core/events"
	"github.com/kilianp07/vesting/core/model"
	"github.com/kilianp07/vesting/core/vesting"
	"github.com/kilianp07/vesting/infra/history"
)

type accountsResponse struct {
	Accounts   map[string]model.Accounts `json:"accounts"`
	HeldTokens *big.Int                  `json:"held_tokens"`
}

type scheduleResponse struct {
	Beneficiary     string        `json:"beneficiary"`
	TotalAmount     *big.Int      `json:"total_amount"`
	StartTime       time.Time     `json:"start_time"`
	CliffTime       time.Time     `json:"cliff_time"`
	CliffAmount     *big.Int      `json:"cliff_amount"`
	Duration        time.Duration `json:"duration_ns"`
	Interval        time.Duration `json:"interval_ns"`
	Revocable       bool          `json:"revocable"`
	ReleasedAmount  *big.Int      `json:"released_amount"`
	WithdrawnAmount *big.Int      `json:"withdrawn_amount"`
	Revoked         bool          `json:"revoked"`
	VestedBalance   *big.Int      `json:"vested_balance"`
}

// NewHandler returns an HTTP handler exposing the aggregate maps via
// GET /api/vesting/accounts, per-beneficiary schedules via
// GET /api/vesting/schedule?beneficiary=<id> and, when a history store is
// configured, past operations via GET /api/vesting/history.
func NewHandler(svc *vesting.Service, hist history.Store) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/vesting/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		resp := accountsResponse{Accounts: svc.AllAccounts(), HeldTokens: svc.HeldTokens()}
		if b := r.URL.Query().Get("beneficiary"); b != "" {
			resp.Accounts = map[string]model.Accounts{b: svc.Accounts(b)}
		}
		writeJSON(w, resp)
	})
	mux.HandleFunc("/api/vesting/schedule", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		b := r.URL.Query().Get("beneficiary")
		if b == "" {
			http.Error(w, "beneficiary is required", http.StatusBadRequest)
			return
		}
		sched, err := svc.Schedule(b)
		if err != nil {
			if errors.Is(err, vesting.ErrNoSchedule) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		balance, err := svc.VestedBalance(b)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, scheduleResponse{
			Beneficiary:     sched.Beneficiary,
			TotalAmount:     sched.TotalAmount,
			StartTime:       sched.StartTime,
			CliffTime:       sched.CliffTime,
			CliffAmount:     sched.CliffAmount,
			Duration:        sched.Duration,
			Interval:        sched.Interval,
			Revocable:       sched.Revocable,
			ReleasedAmount:  sched.ReleasedAmount,
			WithdrawnAmount: sched.WithdrawnAmount,
			Revoked:         sched.Revoked,
			VestedBalance:   balance,
		})
	})
	mux.HandleFunc("/api/vesting/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if hist == nil {
			http.Error(w, "history is not configured", http.StatusNotFound)
			return
		}
		q := history.Query{
			Beneficiary: r.URL.Query().Get("beneficiary"),
			Kind:        events.Kind(r.URL.Query().Get("kind")),
		}
		if v := r.URL.Query().Get("start"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "start must be RFC 3339", http.StatusBadRequest)
				return
			}
			q.Start = t
		}
		if v := r.URL.Query().Get("end"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "end must be RFC 3339", http.StatusBadRequest)
				return
			}
			q.End = t
		}
		recs, err := hist.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if recs == nil {
			recs = []events.Event{}
		}
		writeJSON(w, recs)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
