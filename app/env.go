package app

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func readConfigFromENV(envFile string) {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil {
			log.Warn("[ENV] Error loading .env file: ", err.Error())
		}
	}

	if os.Getenv("LOGGER_LEVEL") != "" {
		Config.Logger.Level = os.Getenv("LOGGER_LEVEL")
	}

	// ledger
	if os.Getenv("LEDGER_PATH") != "" {
		Config.Ledger.Path = os.Getenv("LEDGER_PATH")
	}
	if os.Getenv("LEDGER_IN_MEMORY") != "" {
		inMemory, err := strconv.ParseBool(os.Getenv("LEDGER_IN_MEMORY"))
		if err != nil {
			log.Warn("[ENV] Error parsing LEDGER_IN_MEMORY: ", err.Error())
		} else {
			Config.Ledger.InMemory = inMemory
		}
	}

	// query server
	if os.Getenv("QUERY_SERVER_PORT") != "" {
		port, err := strconv.ParseUint(os.Getenv("QUERY_SERVER_PORT"), 10, 64)
		if err != nil {
			log.Warn("[ENV] Error parsing QUERY_SERVER_PORT: ", err.Error())
		} else {
			Config.QueryServer.Port = port
		}
	}

	// distribution
	if os.Getenv("DISTRIBUTION_OWNER") != "" {
		Config.Distribution.Owner = os.Getenv("DISTRIBUTION_OWNER")
	}

	// exchange
	if os.Getenv("EXCHANGE_OWNER") != "" {
		Config.Exchange.Owner = os.Getenv("EXCHANGE_OWNER")
	}
	if os.Getenv("EXCHANGE_FEE_RATE") != "" {
		Config.Exchange.FeeRate = os.Getenv("EXCHANGE_FEE_RATE")
	}
}
