package app

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

var keyHealth = []byte("health")

type HealthService struct {
	stop         chan bool
	interval     time.Duration
	lastSyncTime time.Time
	services     []models.Service
}

func (h *HealthService) Start() {
	log.Debug("[HEALTH] Starting health")
	stop := false
	for !stop {
		log.Debug("[HEALTH] Starting health sync")
		h.lastSyncTime = time.Now()

		h.PostHealth()

		log.Debug("[HEALTH] Finished health sync")

		select {
		case <-h.stop:
			stop = true
			log.Debug("[HEALTH] Stopped health")
		case <-time.After(h.interval):
		}
	}
}

func (h *HealthService) Stop() {
	log.Debug("[HEALTH] Stopping health")
	h.stop <- true
}

// PostHealth writes the current health snapshot of every registered service
// into the ledger.
func (h *HealthService) PostHealth() bool {
	log.Debug("[HEALTH] Posting health")

	snapshot := make([]models.ServiceHealth, 0, len(h.services))
	for _, service := range h.services {
		snapshot = append(snapshot, service.Health())
	}

	err := Ledger.Update(func(s ledger.Store) error {
		return ledger.SetJSON(s, keyHealth, snapshot)
	})
	if err != nil {
		log.Error("[HEALTH] Error posting health: ", err)
		return false
	}
	return true
}

func (h *HealthService) Health() models.ServiceHealth {
	return models.ServiceHealth{
		Name:         "health",
		LastSyncTime: h.lastSyncTime,
		NextSyncTime: h.lastSyncTime.Add(h.interval),
		Healthy:      true,
	}
}

func NewHealthCheck(services []models.Service) models.Service {
	log.Debug("[HEALTH] Initializing health")
	interval := time.Duration(Config.HealthCheck.IntervalSecs) * time.Second
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &HealthService{
		stop:     make(chan bool),
		interval: interval,
		services: services,
	}
}
