package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/templeseva/priest_scheduler/internal/backend"
	"github.com/templeseva/priest_scheduler/internal/config"
	"github.com/templeseva/priest_scheduler/internal/model"
	"github.com/templeseva/priest_scheduler/internal/repository"
	"github.com/templeseva/priest_scheduler/internal/service"
	"go.uber.org/zap"
)

// DataSource is everything the services read and write. Both the REST client
// and the PostgreSQL store implement it.
type DataSource interface {
	service.AvailabilitySource
	service.AppointmentStore
}

// Container wires the data source and the services shared by the binaries.
type Container struct {
	Source       DataSource
	Availability *service.AvailabilityService
	Appointments *service.AppointmentService

	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{logger: logger}

	switch cfg.DataSource {
	case config.DataSourcePostgres:
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		c.pool = pool
		c.Source = repository.NewStore(pool)
	default:
		c.Source = backend.NewClient(backend.Config{
			BaseURL: cfg.BackendURL,
			Token:   cfg.BackendToken,
			Timeout: cfg.BackendTimeout,
		}, logger.Named("backend"))
	}

	loc := cfg.Location()
	aggregator := service.NewAggregator(model.AvailabilityCalendar, loc, logger.Named("aggregator"))
	c.Availability = service.NewAvailabilityService(c.Source, aggregator, logger.Named("availability"))
	c.Appointments = service.NewAppointmentService(c.Source, loc, cfg.BookingDuration, logger.Named("appointments"))

	logger.Info("✅ Services ready",
		zap.String("data_source", cfg.DataSource),
		zap.String("timezone", loc.String()))

	return c, nil
}

// openPostgres connects to PostgreSQL and applies pending migrations.
func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("✅ Connected to PostgreSQL")

	migrator, err := NewMigrator(pool, cfg.MigrationsPath, logger.Named("migrator"))
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Close releases the database pool, if any.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
		c.logger.Info("Database pool closed")
	}
}
