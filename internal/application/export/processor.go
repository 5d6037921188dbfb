package export

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/domain/catalog"
	exportdomain "github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/domain/magento"
	"github.com/pimsync/connector/internal/domain/mapping"
)

// attributeExportIgnoreList holds PIM attribute codes that are never exported
// as platform attributes. sku maps to the platform identifier and the others
// are platform built-ins.
var attributeExportIgnoreList = map[string]struct{}{
	"sku":         {},
	"name":        {},
	"description": {},
	"collection":  {},
}

// Writer receives the flat records an export run produces.
type Writer interface {
	// WriteAttribute emits one platform attribute payload under its code.
	WriteAttribute(ctx context.Context, code string, record *magento.AttributeRecord) error

	// WriteRow emits one flat product record.
	WriteRow(ctx context.Context, row magento.Row) error
}

// Processor drives one export run for one channel and job instance. Runs are
// sequential, entity by entity; the ledger is the only durable state touched.
type Processor struct {
	ctx      *Context
	channel  *catalog.Channel
	prober   magento.Prober
	ws       magento.Webservice
	products catalog.ProductRepository
	attrs    catalog.AttributeRepository
	cats     catalog.CategoryRepository
	groups   catalog.VariantGroupRepository
	ledger   exportdomain.LedgerStore
	writer   Writer
	prices   PriceCalculator
	merger   *mapping.Merger
	logger   *zap.Logger

	jobInstanceID uuid.UUID
	summary       exportdomain.Summary
}

// ProcessorParams bundles the collaborators a Processor needs.
type ProcessorParams struct {
	Context       *Context
	Prober        magento.Prober
	Webservice    magento.Webservice
	Products      catalog.ProductRepository
	Attributes    catalog.AttributeRepository
	Categories    catalog.CategoryRepository
	Channels      catalog.ChannelRepository
	VariantGroups catalog.VariantGroupRepository
	Ledger        exportdomain.LedgerStore
	Writer        Writer
	Prices        PriceCalculator
	JobInstanceID uuid.UUID
	Logger        *zap.Logger
}

// NewProcessor wires a processor. The channel is resolved eagerly so a
// misconfigured channel code fails before any export work starts.
func NewProcessor(ctx context.Context, p ProcessorParams) (*Processor, error) {
	channel, err := p.Channels.Get(ctx, p.Context.Channel)
	if err != nil {
		return nil, fmt.Errorf("resolve channel %q: %w", p.Context.Channel, err)
	}
	return &Processor{
		ctx:           p.Context,
		channel:       channel,
		prober:        p.Prober,
		ws:            p.Webservice,
		products:      p.Products,
		attrs:         p.Attributes,
		cats:          p.Categories,
		groups:        p.VariantGroups,
		ledger:        p.Ledger,
		writer:        p.Writer,
		prices:        p.Prices,
		merger:        mapping.NewMerger(),
		logger:        p.Logger,
		jobInstanceID: p.JobInstanceID,
	}, nil
}

// Configure validates the run before any entity is touched: the endpoint must
// be reachable, the run context complete, and the attribute, store-view and
// category mappings are reconciled against the live platform catalogs.
// Reachability and context errors are fatal; unmapped entries only raise
// warnings.
func (p *Processor) Configure(ctx context.Context, params magento.ConnectionParams) error {
	if err := p.prober.Probe(ctx, params); err != nil {
		return err
	}
	if err := p.ctx.Validate(); err != nil {
		return fmt.Errorf("export context: %w", err)
	}

	if err := p.configureAttributeMapping(ctx); err != nil {
		return err
	}
	if err := p.configureStoreViewMapping(ctx); err != nil {
		return err
	}
	return p.configureCategoryMapping(ctx)
}

func (p *Processor) configureAttributeMapping(ctx context.Context) error {
	remote, err := p.ws.Attributes(ctx)
	if err != nil {
		return fmt.Errorf("list platform attributes: %w", err)
	}
	p.ctx.RemoteAttributes = make(map[string]magento.RemoteAttribute, len(remote))
	targets := make([]string, 0, len(remote))
	for _, a := range remote {
		p.ctx.RemoteAttributes[a.Code] = a
		targets = append(targets, a.Code)
	}

	attrs, err := p.attrs.List(ctx)
	if err != nil {
		return fmt.Errorf("list attributes: %w", err)
	}
	sources := make([]string, 0, len(attrs))
	for _, a := range attrs {
		sources = append(sources, a.Code)
	}

	resolved, warnings, err := p.merger.Resolve(sources, targets, p.ctx.AttributeMapping)
	if err != nil {
		return fmt.Errorf("resolve attribute mapping: %w", err)
	}
	p.ctx.AttributeMapping = resolved
	p.warnUnresolved("attribute target missing on platform", warnings)
	return nil
}

// configureStoreViewMapping reconciles the locale to store-view mapping
// against the views actually configured on the platform. Every channel locale
// gets an entry, unmatched ones fall back to identity and warn.
func (p *Processor) configureStoreViewMapping(ctx context.Context) error {
	views, err := p.ws.StoreViews(ctx)
	if err != nil {
		return fmt.Errorf("list store views: %w", err)
	}
	p.ctx.StoreViews = views

	targets := make([]string, 0, len(views))
	for _, v := range views {
		targets = append(targets, v.Code)
	}
	resolved, warnings, err := p.merger.Resolve(p.channel.Locales, targets, p.ctx.StoreViewMapping)
	if err != nil {
		return fmt.Errorf("resolve store view mapping: %w", err)
	}
	p.ctx.StoreViewMapping = resolved
	p.warnUnresolved("store view target missing on platform", warnings)
	return nil
}

// configureCategoryMapping reconciles the category mapping against the
// platform category tree.
func (p *Processor) configureCategoryMapping(ctx context.Context) error {
	remote, err := p.ws.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list platform categories: %w", err)
	}
	targets := make([]string, 0, len(remote))
	for _, c := range remote {
		targets = append(targets, c.CategoryID)
	}

	cats, err := p.cats.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	sources := make([]string, 0, len(cats))
	for _, c := range cats {
		sources = append(sources, c.Code)
	}

	resolved, warnings, err := p.merger.Resolve(sources, targets, p.ctx.CategoryMapping)
	if err != nil {
		return fmt.Errorf("resolve category mapping: %w", err)
	}
	p.ctx.CategoryMapping = resolved
	p.warnUnresolved("category target missing on platform", warnings)
	return nil
}

func (p *Processor) warnUnresolved(msg string, warnings []mapping.Warning) {
	for _, w := range warnings {
		p.summary.Warnings++
		p.logger.Warn(msg,
			zap.String("source", w.Source),
			zap.String("target", w.Target))
	}
}

// ExportAttributes normalizes and writes every exportable attribute. Ignored
// codes and media attributes are skipped; any normalization error aborts the
// run, attributes are shared structure and a bad one corrupts every product
// exported after it.
func (p *Processor) ExportAttributes(ctx context.Context) error {
	attrs, err := p.attrs.List(ctx)
	if err != nil {
		return fmt.Errorf("list attributes: %w", err)
	}

	normalizer := NewAttributeNormalizer(p.ctx)
	for _, attr := range attrs {
		if p.skipAttribute(attr) {
			continue
		}
		code, record, err := normalizer.Normalize(attr)
		if err != nil {
			return fmt.Errorf("normalize attribute %q: %w", attr.Code, err)
		}
		if err := p.writer.WriteAttribute(ctx, code, record); err != nil {
			return fmt.Errorf("write attribute %q: %w", code, err)
		}
		if p.ctx.Create {
			p.summary.AttributesCreated++
		} else {
			p.summary.AttributesUpdated++
		}
	}
	return nil
}

// ExportProducts walks the delta cursor for the run's channel and writes one
// row per changed exportable product. A product-level failure skips that
// product and continues; the ledger is updated only after a successful write.
func (p *Processor) ExportProducts(ctx context.Context) error {
	cursor, err := p.products.ListByChannel(ctx, p.channel.Code)
	if err != nil {
		return fmt.Errorf("list products for channel %q: %w", p.channel.Code, err)
	}

	reader := NewDeltaReader(cursor, p.ledger, p.jobInstanceID)
	filter := NewValidProductFilter(p.channel)
	normalizer := NewProductNormalizer(p.ctx)

	for {
		product, err := reader.Read(ctx)
		if err != nil {
			return fmt.Errorf("read next product: %w", err)
		}
		if product == nil {
			return nil
		}
		p.summary.ProductsRead++
		if !filter.IsExportable(product) {
			continue
		}
		if err := p.writer.WriteRow(ctx, normalizer.Normalize(product)); err != nil {
			p.summary.ProductsSkipped++
			p.logger.Error("product export failed",
				zap.String("identifier", product.Identifier),
				zap.Error(err))
			continue
		}
		if err := reader.MarkExported(ctx, product); err != nil {
			return fmt.Errorf("record export of %q: %w", product.Identifier, err)
		}
		p.summary.ProductsExported++
	}
}

// ExportVariantGroups decomposes every variant group into its configurable
// and association records. A group-level failure skips that group and
// continues.
func (p *Processor) ExportVariantGroups(ctx context.Context) error {
	groups, err := p.groups.List(ctx)
	if err != nil {
		return fmt.Errorf("list variant groups: %w", err)
	}

	filter := NewValidProductFilter(p.channel)
	engine := NewVariantGroupEngine(p.ctx, filter, p.prices)

	for _, group := range groups {
		rows, err := engine.BuildExportSet(group, p.channel)
		if err != nil {
			p.summary.GroupsSkipped++
			p.logger.Error("variant group export failed",
				zap.String("group", group.Code),
				zap.Error(err))
			continue
		}
		if len(rows) == 0 {
			continue
		}
		if err := p.writeRows(ctx, rows); err != nil {
			p.summary.GroupsSkipped++
			p.logger.Error("variant group write failed",
				zap.String("group", group.Code),
				zap.Error(err))
			continue
		}
		p.summary.GroupsExported++
	}
	return nil
}

// Summary returns the run counters accumulated so far.
func (p *Processor) Summary() exportdomain.Summary {
	return p.summary
}

func (p *Processor) writeRows(ctx context.Context, rows []magento.Row) error {
	for _, row := range rows {
		if err := p.writer.WriteRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// skipAttribute filters out attributes the platform manages itself plus
// media attributes, which travel through the media pipeline instead.
func (p *Processor) skipAttribute(attr catalog.Attribute) bool {
	if _, ok := attributeExportIgnoreList[attr.Code]; ok {
		return true
	}
	return attr.Type == catalog.AttributeTypeImage
}
