// Package spell defines the spells a player can cast and the catalog that
// the combat rules and the search engine iterate over.
package spell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/wizardsim/internal/game/condition"
)

// ErrUnknownSpell is returned when a spell ID is not in the catalog.
var ErrUnknownSpell = errors.New("unknown spell")

// Def is the static definition of a spell, loaded from YAML.
//
// A spell pays Cost, deals Damage to the boss and heals the player by Heal
// immediately, then optionally starts a timed Effect.
type Def struct {
	ID     string               `yaml:"id"`
	Name   string               `yaml:"name"`
	Cost   int                  `yaml:"cost"`
	Damage int                  `yaml:"damage"`
	Heal   int                  `yaml:"heal"`
	Effect *condition.EffectDef `yaml:"effect"`
}

// StartsEffect reports whether casting d starts a timed effect.
func (d *Def) StartsEffect() bool { return d.Effect != nil }

// Validate checks the invariants of a single definition.
//
// Postcondition: nil return guarantees non-empty ID and Name, Cost > 0,
// Damage >= 0, Heal >= 0, a valid Effect if present, and that a healing
// spell also deals damage.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("spell ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, fmt.Errorf("spell %q: name must not be empty", d.ID))
	}
	if d.Cost <= 0 {
		errs = append(errs, fmt.Errorf("spell %q: cost must be > 0, got %d", d.ID, d.Cost))
	}
	if d.Damage < 0 {
		errs = append(errs, fmt.Errorf("spell %q: damage must be >= 0, got %d", d.ID, d.Damage))
	}
	if d.Heal < 0 {
		errs = append(errs, fmt.Errorf("spell %q: heal must be >= 0, got %d", d.ID, d.Heal))
	}
	// A heal with no damage could be recast forever while mana regenerates.
	if d.Heal > 0 && d.Damage == 0 {
		errs = append(errs, fmt.Errorf("spell %q: a healing spell must also deal damage", d.ID))
	}
	if d.Effect != nil {
		if err := d.Effect.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("spell %q: %w", d.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Registry holds the spell catalog in declaration order.
//
// Invariant: IDs are unique and at most one spell starts each effect kind.
type Registry struct {
	defs []*Def
	byID map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Def)}
}

// Register validates def and appends it to the catalog.
//
// Precondition: def must not be nil.
// Postcondition: returns an error and leaves r unchanged if def is invalid,
// its ID is already registered, or another spell already starts the same effect kind.
func (r *Registry) Register(def *Def) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, dup := r.byID[def.ID]; dup {
		return fmt.Errorf("duplicate spell ID %q", def.ID)
	}
	if def.Effect != nil {
		if other, ok := r.ByEffect(def.Effect.Kind); ok {
			return fmt.Errorf("spell %q: effect kind %s already started by %q", def.ID, def.Effect.Kind, other.ID)
		}
	}
	r.defs = append(r.defs, def)
	r.byID[def.ID] = def
	return nil
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns a snapshot of the catalog in declaration order.
func (r *Registry) All() []*Def {
	out := make([]*Def, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of registered spells.
func (r *Registry) Len() int { return len(r.defs) }

// ByEffect returns the spell that starts effect kind k.
func (r *Registry) ByEffect(k condition.Kind) (*Def, bool) {
	for _, d := range r.defs {
		if d.Effect != nil && d.Effect.Kind == k {
			return d, true
		}
	}
	return nil, false
}

// Cheapest returns the lowest cost in the catalog, or 0 if it is empty.
func (r *Registry) Cheapest() int {
	cheapest := 0
	for i, d := range r.defs {
		if i == 0 || d.Cost < cheapest {
			cheapest = d.Cost
		}
	}
	return cheapest
}

// Parse resolves a comma-separated list of spell IDs.
//
// Postcondition: returns an error wrapping ErrUnknownSpell for the first unknown ID.
func (r *Registry) Parse(list string) ([]*Def, error) {
	var out []*Def
	for _, raw := range strings.Split(list, ",") {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		d, ok := r.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSpell, id)
		}
		out = append(out, d)
	}
	return out, nil
}

// LoadDirectory reads every *.yaml file in dir, in lexical file name order,
// parses each as a Def, and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-empty Registry, or an error if any file fails
// to parse or register, or if dir holds no spells.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading spell dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	if reg.Len() == 0 {
		return nil, fmt.Errorf("spell dir %q contains no spells", dir)
	}
	return reg, nil
}
