package main

import (
	"cosmossdk.io/math"
	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/app"
	"github.com/stardust-protocol/nft-settlement/distribution"
	"github.com/stardust-protocol/nft-settlement/exchange"
	"github.com/stardust-protocol/nft-settlement/models"
	"github.com/stardust-protocol/nft-settlement/server"
)

// bootstrapEngines writes the instantiate-time config of each engine into
// the ledger on first start. Subsequent starts keep the ledger's config;
// the file only seeds.
func bootstrapEngines(d *distribution.Engine, x *exchange.Engine) {
	ok, err := d.Instantiated()
	if err != nil {
		log.Fatal("[MAIN] Error checking distribution engine: ", err)
	}
	if !ok {
		cfg := models.DistributionConfig{
			Owner: app.Config.Distribution.Owner,
			Cost: models.NativeAsset(
				app.Config.Distribution.CostDenom,
				math.NewInt(app.Config.Distribution.CostAmount),
			),
			LimitPerAddress: app.Config.Distribution.LimitPerAddress,
			MintLimit:       app.Config.Distribution.MintLimit,
			ResponseSeconds: app.Config.Distribution.ResponseSeconds,
		}
		if err := d.Instantiate(cfg); err != nil {
			log.Fatal("[MAIN] Error instantiating distribution engine: ", err)
		}
		log.Info("[MAIN] Distribution engine instantiated")
	}

	ok, err = x.Instantiated()
	if err != nil {
		log.Fatal("[MAIN] Error checking exchange engine: ", err)
	}
	if !ok {
		feeRate, err := math.LegacyNewDecFromStr(app.Config.Exchange.FeeRate)
		if err != nil {
			log.Fatal("[MAIN] Error parsing Exchange.FeeRate: ", err)
		}
		cfg := models.ExchangeConfig{
			Owner:   app.Config.Exchange.Owner,
			FeeRate: feeRate,
		}
		if err := x.Instantiate(cfg); err != nil {
			log.Fatal("[MAIN] Error instantiating exchange engine: ", err)
		}
		log.Info("[MAIN] Exchange engine instantiated")
	}
}

func createServices(d *distribution.Engine, x *exchange.Engine) []models.Service {
	services := []models.Service{}

	if app.Config.QueryServer.Enabled {
		services = append(services, server.NewQueryService(app.Config.QueryServer.Port, d, x))
	}

	services = append(services, app.NewHealthCheck(services))
	return services
}
