package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/distribution"
	"github.com/stardust-protocol/nft-settlement/exchange"
	"github.com/stardust-protocol/nft-settlement/models"
)

const QueryServerName = "query server"

// QueryService serves the read-only queries over HTTP. Execute operations
// never travel through it: those belong to the host dispatch, which applies
// them against the ledger directly.
type QueryService struct {
	server       *http.Server
	distribution *distribution.Engine
	exchange     *exchange.Engine
	lastSyncTime time.Time
	healthy      bool
}

func NewQueryService(port uint64, d *distribution.Engine, x *exchange.Engine) models.Service {
	s := &QueryService{
		distribution: d,
		exchange:     x,
		healthy:      true,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/reservations/", s.handleReservationById)
	mux.HandleFunc("/reservations", s.handleReservationsByAddress)
	mux.HandleFunc("/valid_reservations", s.handleValidReservations)
	mux.HandleFunc("/fees", s.handleFeeBalance)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

func (s *QueryService) Start() {
	log.Info("[QUERY] Starting query server on ", s.server.Addr)
	s.lastSyncTime = time.Now()
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("[QUERY] Query server error: ", err)
		s.healthy = false
	}
}

func (s *QueryService) Stop() {
	log.Debug("[QUERY] Stopping query server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.Error("[QUERY] Error stopping query server: ", err)
	}
}

func (s *QueryService) Health() models.ServiceHealth {
	return models.ServiceHealth{
		Name:         QueryServerName,
		LastSyncTime: s.lastSyncTime,
		NextSyncTime: s.lastSyncTime,
		Healthy:      s.healthy,
	}
}

func (s *QueryService) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *QueryService) handleStatus(w http.ResponseWriter, _ *http.Request) {
	status, err := s.distribution.Status()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// GET /reservations/{id}
func (s *QueryService) handleReservationById(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Path[len("/reservations/"):], 10, 64)
	if err != nil {
		http.Error(w, "invalid reservation id", http.StatusBadRequest)
		return
	}
	reservation, err := s.distribution.ReservationById(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// GET /reservations?address=...
func (s *QueryService) handleReservationsByAddress(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		http.Error(w, "address is required", http.StatusBadRequest)
		return
	}
	reservations, err := s.distribution.ReservationsByAddress(address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// GET /valid_reservations?start_at=...&limit=...
func (s *QueryService) handleValidReservations(w http.ResponseWriter, r *http.Request) {
	startAt, _ := strconv.ParseUint(r.URL.Query().Get("start_at"), 10, 64)
	limit := uint64(common.MaxPageSize)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	ids, err := s.distribution.ValidReservations(startAt, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// GET /fees?kind=native&denom=...
func (s *QueryService) handleFeeBalance(w http.ResponseWriter, r *http.Request) {
	denom := r.URL.Query().Get("denom")
	if denom == "" {
		http.Error(w, "denom is required", http.StatusBadRequest)
		return
	}
	kind := models.AssetKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = models.AssetKindNative
	}
	balance, err := s.exchange.FeeBalance(models.AssetInfo{Kind: kind, Denom: denom})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"denom": denom, "balance": balance.String()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("[QUERY] Error encoding response: ", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
