package envconfig

import "github.com/caarlos0/env/v11"

type plannerEnv struct {
	Workers        int    `env:"MRP_WORKERS" envDefault:"0"`
	LevelPolicy    string `env:"MRP_LEVEL_POLICY" envDefault:"strict"`
	IncludeCovered bool   `env:"MRP_INCLUDE_COVERED" envDefault:"false"`
	IncludeIdle    bool   `env:"MRP_INCLUDE_IDLE" envDefault:"false"`
	MetricsFile    string `env:"MRP_METRICS_FILE"`
}

type planner struct {
	raw plannerEnv
}

func NewPlannerConfig() (*planner, error) {
	var raw plannerEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &planner{raw: raw}, nil
}

func (cfg *planner) Workers() int         { return cfg.raw.Workers }
func (cfg *planner) LevelPolicy() string  { return cfg.raw.LevelPolicy }
func (cfg *planner) IncludeCovered() bool { return cfg.raw.IncludeCovered }
func (cfg *planner) IncludeIdle() bool    { return cfg.raw.IncludeIdle }
func (cfg *planner) MetricsFile() string  { return cfg.raw.MetricsFile }
