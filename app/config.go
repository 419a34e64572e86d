package app

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/stardust-protocol/nft-settlement/models"
)

var (
	Config models.Config
)

func InitConfig(configFile string, envFile string) {
	yamlFile, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatalf("[CONFIG] Error reading config file %q: %s\n", configFile, err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &Config)
	if err != nil {
		log.Fatalf("[CONFIG] Error unmarshalling config file %q: %s\n", configFile, err.Error())
	}
	readConfigFromENV(envFile)
	validateConfig()
}

func validateConfig() {
	if Config.Ledger.Path == "" && !Config.Ledger.InMemory {
		log.Fatal("[CONFIG] Ledger.Path is required")
	}
	if Config.Distribution.Owner == "" {
		log.Fatal("[CONFIG] Distribution.Owner is required")
	}
	if Config.Distribution.CostDenom == "" {
		log.Fatal("[CONFIG] Distribution.CostDenom is required")
	}
	if Config.Distribution.CostAmount <= 0 {
		log.Fatal("[CONFIG] Distribution.CostAmount is required")
	}
	if Config.Distribution.LimitPerAddress == 0 {
		log.Fatal("[CONFIG] Distribution.LimitPerAddress is required")
	}
	if Config.Distribution.MintLimit == 0 {
		log.Fatal("[CONFIG] Distribution.MintLimit is required")
	}
	if Config.Distribution.ResponseSeconds == 0 {
		log.Fatal("[CONFIG] Distribution.ResponseSeconds is required")
	}
	if Config.Exchange.Owner == "" {
		log.Fatal("[CONFIG] Exchange.Owner is required")
	}
	if Config.Exchange.FeeRate == "" {
		log.Fatal("[CONFIG] Exchange.FeeRate is required")
	}
	if Config.QueryServer.Enabled && Config.QueryServer.Port == 0 {
		log.Fatal("[CONFIG] QueryServer.Port is required")
	}
}
