package models

type Config struct {
	Logger       LoggerConfig       `yaml:"logger" json:"logger"`
	Ledger       LedgerConfig       `yaml:"ledger" json:"ledger"`
	QueryServer  QueryServerConfig  `yaml:"query_server" json:"query_server"`
	HealthCheck  HealthCheckConfig  `yaml:"health_check" json:"health_check"`
	Distribution DistributionParams `yaml:"distribution" json:"distribution"`
	Exchange     ExchangeParams     `yaml:"exchange" json:"exchange"`
}

type LoggerConfig struct {
	Level string `yaml:"level" json:"level"`
}

type LedgerConfig struct {
	Path     string `yaml:"path" json:"path"`
	InMemory bool   `yaml:"in_memory" json:"in_memory"`
}

type QueryServerConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Port    uint64 `yaml:"port" json:"port"`
}

type HealthCheckConfig struct {
	IntervalSecs int64 `yaml:"interval_secs" json:"interval_secs"`
}

// DistributionParams seeds the reservation ledger on first start; once the
// ledger holds a config these are ignored.
type DistributionParams struct {
	Owner           string `yaml:"owner" json:"owner"`
	CostDenom       string `yaml:"cost_denom" json:"cost_denom"`
	CostAmount      int64  `yaml:"cost_amount" json:"cost_amount"`
	LimitPerAddress uint64 `yaml:"limit_per_address" json:"limit_per_address"`
	MintLimit       uint64 `yaml:"mint_limit" json:"mint_limit"`
	ResponseSeconds uint64 `yaml:"response_seconds" json:"response_seconds"`
}

// ExchangeParams seeds the exchange engine on first start.
type ExchangeParams struct {
	Owner   string `yaml:"owner" json:"owner"`
	FeeRate string `yaml:"fee_rate" json:"fee_rate"`
}
