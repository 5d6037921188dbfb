package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appexport "github.com/pimsync/connector/internal/application/export"
	"github.com/pimsync/connector/internal/domain/magento"
	"github.com/pimsync/connector/internal/domain/mapping"
	"github.com/pimsync/connector/internal/infrastructure/config"
	"github.com/pimsync/connector/internal/infrastructure/exportfile"
	"github.com/pimsync/connector/internal/infrastructure/logger"
	magentoinfra "github.com/pimsync/connector/internal/infrastructure/magento"
	"github.com/pimsync/connector/internal/infrastructure/persistence"
	"github.com/pimsync/connector/internal/infrastructure/pimfile"
)

// Mapping names in the mapping store.
const (
	attributeMappingName = "attributes"
	storeViewMappingName = "storeviews"
	categoryMappingName  = "categories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	jobInstanceID := uuid.New()
	log.Info("Starting export run",
		zap.String("app", cfg.App.Name),
		zap.String("channel", cfg.Export.Channel),
		zap.String("job_instance", jobInstanceID.String()),
	)

	// An export run is only interruptible between entities; cancellation
	// propagates through the context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, jobInstanceID); err != nil {
		log.Fatal("Export run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, jobInstanceID uuid.UUID) error {
	source, err := pimfile.Open(cfg.Export.CatalogPath)
	if err != nil {
		return err
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	writer, err := exportfile.Open(cfg.Export.OutputPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := writer.Close(); err != nil {
			log.Warn("Failed to flush export output", zap.Error(err))
		}
	}()

	params := magento.ConnectionParams{
		BaseURL:  cfg.Magento.BaseURL,
		WSDLPath: cfg.Magento.WSDLPath,
		Login:    cfg.Magento.Login,
		APIKey:   cfg.Magento.APIKey,
	}

	mappings := persistence.NewGormMappingRepository(db.DB)
	exportCtx := &appexport.Context{
		Channel:                 cfg.Export.Channel,
		Create:                  cfg.Export.Create,
		DefaultLocale:           cfg.Export.DefaultLocale,
		DefaultCurrency:         cfg.Export.DefaultCurrency,
		AxisAttributeCodes:      cfg.Export.AxisAttributes,
		Visibility:              cfg.Export.Visibility,
		VariantMemberVisibility: cfg.Export.VariantMemberVisibility,
		AttributeMapping:        loadMapping(ctx, mappings, attributeMappingName, log),
		StoreViewMapping:        loadMapping(ctx, mappings, storeViewMappingName, log),
		CategoryMapping:         loadMapping(ctx, mappings, categoryMappingName, log),
		StoreViews:              []magento.StoreView{{StoreID: 0, Code: "admin"}},
	}

	processor, err := appexport.NewProcessor(ctx, appexport.ProcessorParams{
		Context:       exportCtx,
		Prober:        magentoinfra.NewURLExplorer(cfg.Magento.Timeout, log),
		Webservice:    magentoinfra.NewSoapClient(params, cfg.Magento.Timeout, log),
		Products:      source,
		Attributes:    source,
		Categories:    source.Categories(),
		Channels:      source.Channels(),
		VariantGroups: source.VariantGroups(),
		Ledger:        persistence.NewGormLedgerRepository(db.DB),
		Writer:        writer,
		Prices:        &appexport.BasePriceCalculator{PriceAttribute: cfg.Export.PriceAttribute},
		JobInstanceID: jobInstanceID,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	if err := processor.Configure(ctx, params); err != nil {
		return err
	}
	if err := processor.ExportAttributes(ctx); err != nil {
		return err
	}
	if err := processor.ExportProducts(ctx); err != nil {
		return err
	}
	if err := processor.ExportVariantGroups(ctx); err != nil {
		return err
	}

	// Persist the reconciled mappings so the next run starts from them.
	reconciled := map[string]*mapping.Collection{
		attributeMappingName: exportCtx.AttributeMapping,
		storeViewMappingName: exportCtx.StoreViewMapping,
		categoryMappingName:  exportCtx.CategoryMapping,
	}
	for name, c := range reconciled {
		if err := mappings.Save(ctx, name, c); err != nil {
			log.Warn("Failed to persist mapping",
				zap.String("name", name), zap.Error(err))
		}
	}

	summary := processor.Summary()
	log.Info("Export run finished",
		zap.Int("attributes_created", summary.AttributesCreated),
		zap.Int("attributes_updated", summary.AttributesUpdated),
		zap.Int("products_read", summary.ProductsRead),
		zap.Int("products_exported", summary.ProductsExported),
		zap.Int("products_skipped", summary.ProductsSkipped),
		zap.Int("groups_exported", summary.GroupsExported),
		zap.Int("groups_skipped", summary.GroupsSkipped),
		zap.Int("warnings", summary.Warnings),
	)
	return nil
}

// loadMapping pulls a named mapping, treating a missing one as empty.
func loadMapping(ctx context.Context, store mapping.Store, name string, log *zap.Logger) *mapping.Collection {
	c, err := store.Find(ctx, name)
	if err != nil {
		if !errors.Is(err, mapping.ErrMappingNotFound) {
			log.Warn("Failed to load mapping, starting empty",
				zap.String("name", name), zap.Error(err))
		}
		return mapping.NewCollection(0)
	}
	return c
}
