// internal/registry/catalog.go
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// rawRegister mirrors one entry of the device's definition dump.
// "len" is in bits.
type rawRegister struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Len  uint16 `json:"len"`
}

// definitionFile mirrors the dump envelope.
type definitionFile struct {
	MetaID    string        `json:"metaid"`
	Result    string        `json:"result"`
	Registers []rawRegister `json:"registers"`
}

// Catalog holds the name->Register mapping for one register group.
// Immutable once loaded.
type Catalog struct {
	regs map[string]Register
}

// Load parses a register definition dump.
// Duplicate names are last-write-wins; an unknown type string fails the load.
func Load(r io.Reader) (*Catalog, error) {
	var raw definitionFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("registry: parsing definitions: %w", err)
	}

	regs := make(map[string]Register, len(raw.Registers))
	for _, f := range raw.Registers {
		t, err := ParseDataType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("registry: register %q: %w", f.Name, err)
		}
		regs[f.Name] = Register{
			Name:  f.Name,
			Addr:  f.ID,
			Words: f.Len / 16,
			Type:  t,
		}
	}

	return &Catalog{regs: regs}, nil
}

// LoadFile loads a definition dump from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: opening definitions: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup resolves names to definitions. Names absent from the catalog are
// returned in missing; callers must tolerate partial results.
func (c *Catalog) Lookup(names []string) (found []Register, missing []string) {
	for _, n := range names {
		reg, ok := c.regs[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		found = append(found, reg)
	}
	return found, missing
}

// Names returns every defined register name, in no particular order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.regs))
	for n := range c.regs {
		out = append(out, n)
	}
	return out
}

// Len reports how many registers the catalog defines.
func (c *Catalog) Len() int {
	return len(c.regs)
}
