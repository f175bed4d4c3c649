package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vsinha/bommrp/pkg/application/dto"
	"github.com/vsinha/bommrp/pkg/application/services/mrp"
	"github.com/vsinha/bommrp/pkg/domain/repositories"
	"github.com/vsinha/bommrp/pkg/infrastructure/logger"
	"github.com/vsinha/bommrp/pkg/infrastructure/metrics"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bommrp/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/bommrp/pkg/interfaces/cli/output"
)

// openCatalog reads the scenario directory when one is given and the SQLite
// store otherwise. The returned func releases the store.
func (o *Options) openCatalog(ctx context.Context) (repositories.Catalog, func(), error) {
	if o.ScenarioDir != "" {
		catalog, err := loadScenario(ctx, o.ScenarioDir)
		return catalog, func() {}, err
	}

	store, err := sqlite.Open(o.DBPath)
	if err != nil {
		return repositories.Catalog{}, nil, err
	}
	logger.Debug(ctx, "catalog opened", logger.String("db", store.Path()))
	return store.Catalog(), func() { _ = store.Close() }, nil
}

func loadScenario(ctx context.Context, dir string) (repositories.Catalog, error) {
	start := time.Now()
	catalog := memory.NewCatalog()
	if err := csv.NewLoader().LoadScenario(dir, catalog); err != nil {
		return repositories.Catalog{}, fmt.Errorf("error loading scenario: %w", err)
	}
	logger.Debug(ctx, "scenario loaded",
		logger.String("dir", dir),
		logger.Duration("elapsed", time.Since(start)),
	)
	return catalog, nil
}

// runPlan runs the engine over the selected catalog and exports metrics
func (o *Options) runPlan(ctx context.Context, includeIdle bool) (*dto.MRPResult, error) {
	catalog, release, err := o.openCatalog(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	recorder := metrics.NewRecorder()
	service := mrp.NewMRPService(mrp.EngineConfig{
		Workers:     o.Workers,
		LevelPolicy: o.policy,
		IncludeIdle: includeIdle,
	}, mrp.WithRecorder(recorder))

	result, err := service.Run(ctx, catalog)
	if err != nil {
		return nil, err
	}

	if o.MetricsFile != "" {
		if err := recorder.WriteTextfile(o.MetricsFile); err != nil {
			logger.Warn(ctx, "metrics not written", logger.ErrorF(err))
		}
	}
	return result, nil
}

// write opens the report destination and hands it to render
func (o *Options) write(render func(w io.Writer, format output.Format) error) error {
	dst, err := output.Open(o.Output)
	if err != nil {
		return err
	}
	werr := render(dst, o.format)
	if cerr := dst.Close(); werr == nil {
		werr = cerr
	}
	return werr
}
