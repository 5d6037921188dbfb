package pimfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pimsync/connector/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// File format
// ---------------------------------------------------------------------------

type channelDTO struct {
	Code         string   `json:"code"`
	RootCategory string   `json:"root_category"`
	Locales      []string `json:"locales"`
	Currencies   []string `json:"currencies"`
}

type categoryDTO struct {
	ID     int    `json:"id"`
	Code   string `json:"code"`
	Parent string `json:"parent"`
}

type attributeDTO struct {
	Code        string            `json:"code"`
	Type        string            `json:"type"`
	Localizable bool              `json:"localizable"`
	Required    bool              `json:"required"`
	Unique      bool              `json:"unique"`
	Labels      map[string]string `json:"labels"`
}

type valueDTO struct {
	Attribute string `json:"attribute"`
	Locale    string `json:"locale,omitempty"`
	Scope     string `json:"scope,omitempty"`
	Data      string `json:"data,omitempty"`
	Option    string `json:"option,omitempty"`
}

type completenessDTO struct {
	Channel string `json:"channel"`
	Ratio   int    `json:"ratio"`
}

type productDTO struct {
	Identifier   string            `json:"identifier"`
	Enabled      bool              `json:"enabled"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Categories   []string          `json:"categories"`
	Completeness []completenessDTO `json:"completeness"`
	Values       []valueDTO        `json:"values"`
}

type variantGroupDTO struct {
	Code     string   `json:"code"`
	Axes     []string `json:"axes"`
	Products []string `json:"products"`
}

type catalogDTO struct {
	Channels      []channelDTO      `json:"channels"`
	Categories    []categoryDTO     `json:"categories"`
	Attributes    []attributeDTO    `json:"attributes"`
	Products      []productDTO      `json:"products"`
	VariantGroups []variantGroupDTO `json:"variant_groups"`
}

// ---------------------------------------------------------------------------
// Source
// ---------------------------------------------------------------------------

// Source serves a PIM catalog dump from a JSON file. It implements every
// catalog repository the export consumes. All data is loaded once; reads are
// cheap and stable-ordered.
type Source struct {
	channels   map[string]*catalog.Channel
	categories map[string]catalog.Category
	catOrder   []string
	attributes []catalog.Attribute
	products   map[string]*catalog.Product
	order      []string
	groups     []catalog.VariantGroup
}

// Open reads and resolves a catalog dump.
func Open(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Source, error) {
	var dto catalogDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	s := &Source{
		channels:   make(map[string]*catalog.Channel),
		categories: make(map[string]catalog.Category),
		products:   make(map[string]*catalog.Product),
	}

	byCode := make(map[string]categoryDTO, len(dto.Categories))
	for _, c := range dto.Categories {
		byCode[c.Code] = c
	}
	for _, c := range dto.Categories {
		root, err := resolveRoot(c, byCode)
		if err != nil {
			return nil, err
		}
		parentID := 0
		if c.Parent != "" {
			parentID = byCode[c.Parent].ID
		}
		s.categories[c.Code] = catalog.Category{
			ID:       c.ID,
			ParentID: parentID,
			RootID:   root,
			Code:     c.Code,
		}
		s.catOrder = append(s.catOrder, c.Code)
	}

	for _, ch := range dto.Channels {
		root, ok := s.categories[ch.RootCategory]
		if !ok {
			return nil, fmt.Errorf("channel %q references unknown category %q", ch.Code, ch.RootCategory)
		}
		s.channels[ch.Code] = &catalog.Channel{
			Code:           ch.Code,
			RootCategoryID: root.ID,
			Locales:        ch.Locales,
			Currencies:     ch.Currencies,
		}
	}

	for _, a := range dto.Attributes {
		t := catalog.AttributeType(a.Type)
		if !t.IsValid() {
			return nil, fmt.Errorf("attribute %q has unknown type %q", a.Code, a.Type)
		}
		attr := catalog.Attribute{
			Code:        a.Code,
			Type:        t,
			Localizable: a.Localizable,
			Required:    a.Required,
			Unique:      a.Unique,
		}
		locales := make([]string, 0, len(a.Labels))
		for locale := range a.Labels {
			locales = append(locales, locale)
		}
		sort.Strings(locales)
		for _, locale := range locales {
			attr.Translations = append(attr.Translations, catalog.AttributeTranslation{
				Locale: locale,
				Label:  a.Labels[locale],
			})
		}
		s.attributes = append(s.attributes, attr)
	}

	for _, p := range dto.Products {
		product := &catalog.Product{
			Identifier: p.Identifier,
			Enabled:    p.Enabled,
			UpdatedAt:  p.UpdatedAt,
		}
		for _, code := range p.Categories {
			cat, ok := s.categories[code]
			if !ok {
				return nil, fmt.Errorf("product %q references unknown category %q", p.Identifier, code)
			}
			product.Categories = append(product.Categories, cat)
		}
		for _, c := range p.Completeness {
			product.Completenesses = append(product.Completenesses, catalog.Completeness{
				ChannelCode: c.Channel,
				Ratio:       c.Ratio,
			})
		}
		for _, v := range p.Values {
			product.Values = append(product.Values, catalog.ProductValue{
				AttributeCode: v.Attribute,
				Locale:        v.Locale,
				Scope:         v.Scope,
				Data:          v.Data,
				Option:        v.Option,
			})
		}
		s.products[p.Identifier] = product
		s.order = append(s.order, p.Identifier)
	}

	attrByCode := make(map[string]catalog.Attribute, len(s.attributes))
	for _, a := range s.attributes {
		attrByCode[a.Code] = a
	}
	for _, g := range dto.VariantGroups {
		group := catalog.VariantGroup{Code: g.Code}
		for _, code := range g.Axes {
			axis, ok := attrByCode[code]
			if !ok {
				return nil, fmt.Errorf("variant group %q references unknown axis %q", g.Code, code)
			}
			group.Axes = append(group.Axes, axis)
		}
		for _, id := range g.Products {
			member, ok := s.products[id]
			if !ok {
				return nil, fmt.Errorf("variant group %q references unknown product %q", g.Code, id)
			}
			group.Products = append(group.Products, member)
		}
		s.groups = append(s.groups, group)
	}
	return s, nil
}

// resolveRoot walks the parent chain up to the tree root.
func resolveRoot(c categoryDTO, byCode map[string]categoryDTO) (int, error) {
	seen := make(map[string]struct{})
	cur := c
	for cur.Parent != "" {
		if _, loop := seen[cur.Code]; loop {
			return 0, fmt.Errorf("category %q is part of a parent cycle", c.Code)
		}
		seen[cur.Code] = struct{}{}
		parent, ok := byCode[cur.Parent]
		if !ok {
			return 0, fmt.Errorf("category %q references unknown parent %q", cur.Code, cur.Parent)
		}
		cur = parent
	}
	return cur.ID, nil
}

// ---------------------------------------------------------------------------
// Repository implementations
// ---------------------------------------------------------------------------

// Get returns a product by identifier.
func (s *Source) Get(_ context.Context, identifier string) (*catalog.Product, error) {
	p, ok := s.products[identifier]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

// ListByChannel returns a cursor over all products in load order. Channel
// eligibility is decided downstream by the product filter.
func (s *Source) ListByChannel(_ context.Context, channelCode string) (catalog.ProductCursor, error) {
	if _, ok := s.channels[channelCode]; !ok {
		return nil, catalog.ErrChannelNotFound
	}
	products := make([]*catalog.Product, len(s.order))
	for i, id := range s.order {
		products[i] = s.products[id]
	}
	return &cursor{products: products}, nil
}

// List returns all attributes in file order.
func (s *Source) List(_ context.Context) ([]catalog.Attribute, error) {
	return s.attributes, nil
}

// ListCategories returns all categories in file order.
func (s *Source) ListCategories(_ context.Context) ([]catalog.Category, error) {
	cats := make([]catalog.Category, len(s.catOrder))
	for i, code := range s.catOrder {
		cats[i] = s.categories[code]
	}
	return cats, nil
}

// GetChannel returns a channel by code.
func (s *Source) GetChannel(_ context.Context, code string) (*catalog.Channel, error) {
	ch, ok := s.channels[code]
	if !ok {
		return nil, catalog.ErrChannelNotFound
	}
	return ch, nil
}

// ListVariantGroups returns all variant groups in file order.
func (s *Source) ListVariantGroups(_ context.Context) ([]catalog.VariantGroup, error) {
	return s.groups, nil
}

// Channels adapts the source to catalog.ChannelRepository.
func (s *Source) Channels() catalog.ChannelRepository { return channelRepo{s} }

// Categories adapts the source to catalog.CategoryRepository.
func (s *Source) Categories() catalog.CategoryRepository { return categoryRepo{s} }

// VariantGroups adapts the source to catalog.VariantGroupRepository.
func (s *Source) VariantGroups() catalog.VariantGroupRepository { return groupRepo{s} }

type channelRepo struct{ s *Source }

func (r channelRepo) Get(ctx context.Context, code string) (*catalog.Channel, error) {
	return r.s.GetChannel(ctx, code)
}

type categoryRepo struct{ s *Source }

func (r categoryRepo) List(ctx context.Context) ([]catalog.Category, error) {
	return r.s.ListCategories(ctx)
}

type groupRepo struct{ s *Source }

func (r groupRepo) List(ctx context.Context) ([]catalog.VariantGroup, error) {
	return r.s.ListVariantGroups(ctx)
}

// cursor iterates a fixed product slice.
type cursor struct {
	products []*catalog.Product
	pos      int
	err      error
}

func (c *cursor) Next(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if c.pos >= len(c.products) {
		return false
	}
	c.pos++
	return true
}

func (c *cursor) Product() *catalog.Product { return c.products[c.pos-1] }

func (c *cursor) Err() error { return c.err }

// Ensure Source satisfies the catalog contracts
var (
	_ catalog.ProductRepository   = (*Source)(nil)
	_ catalog.AttributeRepository = (*Source)(nil)
)
