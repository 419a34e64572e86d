package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/app"
	"github.com/stardust-protocol/nft-settlement/distribution"
	"github.com/stardust-protocol/nft-settlement/exchange"
	"github.com/stardust-protocol/nft-settlement/models"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if len(os.Args) < 2 {
		log.Fatal("Please provide config file as parameter")
	}
	absConfigPath, _ := filepath.Abs(os.Args[1])

	envFile := ""
	if len(os.Args) >= 3 {
		envFile, _ = filepath.Abs(os.Args[2])
	}

	app.InitConfig(absConfigPath, envFile)
	app.InitLogger()
	app.InitLedger()

	d := distribution.NewEngine(app.Ledger)
	x := exchange.NewEngine(app.Ledger)
	bootstrapEngines(d, x)

	services := createServices(d, x)

	var wg sync.WaitGroup
	for _, service := range services {
		wg.Add(1)
		go func(svc models.Service) {
			defer wg.Done()
			svc.Start()
		}(service)
	}

	// Gracefully shut down
	gracefulStop := make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(gracefulStop, syscall.SIGINT, syscall.SIGTERM)
	go waitForExitSignals(gracefulStop, done)
	<-done

	log.Debug("Gracefully shutting down...")
	for _, service := range services {
		service.Stop()
	}
	wg.Wait()
	if err := app.Ledger.Close(); err != nil {
		log.Error("[MAIN] Error closing ledger: ", err)
	}
	log.Debug("Gracefully stopped")
}

func waitForExitSignals(gracefulStop chan os.Signal, done chan bool) {
	sig := <-gracefulStop
	log.Debug("Got signal:", sig)
	done <- true
}
