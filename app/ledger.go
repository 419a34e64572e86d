package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/ledger"
)

var (
	Ledger ledger.Ledger
)

// InitLedger opens the shared ledger every engine operates on.
func InitLedger() {
	var err error
	if Config.Ledger.InMemory {
		log.Warn("[LEDGER] Using in-memory ledger, state will not survive restarts")
		Ledger = ledger.NewMemory()
	} else {
		Ledger, err = ledger.OpenBadger(Config.Ledger.Path, false)
		if err != nil {
			log.Fatal("[LEDGER] Error opening ledger: ", err)
		}
	}
	log.Info("[LEDGER] Ledger initialized")
}
