package envconfig

import "github.com/caarlos0/env/v11"

type storeEnv struct {
	DBPath      string `env:"MRP_DB_PATH" envDefault:"mrp.db"`
	ScenarioDir string `env:"MRP_SCENARIO_DIR"`
}

type store struct {
	raw storeEnv
}

func NewStoreConfig() (*store, error) {
	var raw storeEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &store{raw: raw}, nil
}

func (cfg *store) DBPath() string      { return cfg.raw.DBPath }
func (cfg *store) ScenarioDir() string { return cfg.raw.ScenarioDir }
