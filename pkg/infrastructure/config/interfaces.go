package config

type Logger interface {
	Level() string
	AsJSON() bool
}

type Planner interface {
	Workers() int
	LevelPolicy() string
	IncludeCovered() bool
	IncludeIdle() bool
	MetricsFile() string
}

type Store interface {
	DBPath() string
	ScenarioDir() string
}
