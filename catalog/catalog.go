// Package catalog loads the read-only list of kits offered on the site.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

//go:embed products.json
var defaultProducts []byte

// Product is one kit in the catalog.
type Product struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Badge       string `json:"badge,omitempty"`
	Price       string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
}

// UnmarshalJSON accepts the field aliases used by older catalog files.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		Slug             string          `json:"slug"`
		Name             string          `json:"name"`
		Badge            string          `json:"badge"`
		Price            json.RawMessage `json:"price"`
		PriceDisplay     string          `json:"priceDisplay"`
		Description      string          `json:"description"`
		ShortDescription string          `json:"shortDescription"`
		CheckoutURL      string          `json:"checkoutUrl"`
		StripeURL        string          `json:"stripeUrl"`
		PurchaseURL      string          `json:"purchaseUrl"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	price, err := priceString(raw.Price)
	if err != nil {
		return fmt.Errorf("product %q: %w", raw.Slug, err)
	}
	*p = Product{
		Slug:        raw.Slug,
		Name:        raw.Name,
		Badge:       raw.Badge,
		Price:       firstNonEmpty(raw.PriceDisplay, price),
		Description: firstNonEmpty(raw.Description, raw.ShortDescription),
		CheckoutURL: firstNonEmpty(raw.CheckoutURL, raw.StripeURL, raw.PurchaseURL),
	}
	return nil
}

// priceString accepts "price" as either a display string or a number.
func priceString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("price must be a string or number")
	}
	return "$" + n.String(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Catalog is an ordered, immutable product list.
type Catalog struct {
	products []Product
	bySlug   map[string]int
}

// Parse decodes a JSON array of products. Empty or duplicate slugs are rejected.
func Parse(data []byte) (*Catalog, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c := &Catalog{products: products, bySlug: make(map[string]int, len(products))}
	for i, p := range products {
		slug := strings.TrimSpace(p.Slug)
		if slug == "" {
			return nil, fmt.Errorf("catalog: product %d has no slug", i)
		}
		if _, dup := c.bySlug[slug]; dup {
			return nil, fmt.Errorf("catalog: duplicate slug %q", slug)
		}
		c.bySlug[slug] = i
	}
	return c, nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultProducts)
	if err != nil {
		panic("catalog: embedded products.json: " + err.Error())
	}
	return c
}

// Lookup returns the product for slug.
func (c *Catalog) Lookup(slug string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Products returns a copy of the products in catalog order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Store holds the current catalog and lets a watcher swap it atomically.
type Store struct {
	cur atomic.Pointer[Catalog]
}

// NewStore returns a Store serving c.
func NewStore(c *Catalog) (*Store, error) {
	if c == nil {
		return nil, errors.New("catalog is required")
	}
	s := &Store{}
	s.cur.Store(c)
	return s, nil
}

// Current returns the catalog in effect.
func (s *Store) Current() *Catalog {
	return s.cur.Load()
}

// Replace swaps in c.
func (s *Store) Replace(c *Catalog) {
	if c != nil {
		s.cur.Store(c)
	}
}
