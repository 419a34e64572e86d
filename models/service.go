package models

import (
	"time"
)

type Service interface {
	Start()
	Health() ServiceHealth
	Stop()
}

type ServiceHealth struct {
	Name         string    `json:"name"`
	LastSyncTime time.Time `json:"last_sync_time"`
	NextSyncTime time.Time `json:"next_sync_time"`
	Healthy      bool      `json:"healthy"`
}
