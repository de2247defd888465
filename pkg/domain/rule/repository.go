package rule

import (
	"context"
	"fmt"
	"strings"
)

// Brand is a guarded service name. Tokens within edit distance one of a brand,
// without being the brand itself, are flagged as impersonation attempts.
type Brand struct {
	Name string `json:"name"`
	Risk int    `json:"risk"`
}

func (b *Brand) Validate() error {
	if len(strings.TrimSpace(b.Name)) < 3 {
		return fmt.Errorf("brand %q: name must be at least 3 characters", b.Name)
	}
	if b.Risk < 0 || b.Risk > 100 {
		return fmt.Errorf("brand %q: risk %d out of range [0,100]", b.Name, b.Risk)
	}
	return nil
}

// Catalog is the full pattern database loaded at boot. Immutable afterwards.
type Catalog struct {
	Rules  []Rule  `json:"rules"`
	Brands []Brand `json:"brands"`
}

func (c *Catalog) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("catalog contains no rules")
	}
	seen := make(map[string]struct{}, len(c.Rules))
	for i := range c.Rules {
		if err := c.Rules[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.Rules[i].ID]; dup {
			return fmt.Errorf("duplicate rule id %q", c.Rules[i].ID)
		}
		seen[c.Rules[i].ID] = struct{}{}
	}
	for i := range c.Brands {
		if err := c.Brands[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Repository loads the pattern catalog. Implementations are read once at boot;
// the returned catalog is immutable for the process lifetime.
type Repository interface {
	Load(ctx context.Context) (*Catalog, error)
}
