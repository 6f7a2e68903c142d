package pcie

import (
	"embed"
	"fmt"
	"strings"

	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/schema"
)

//go:embed defs/*.yaml
var defsFS embed.FS

// Definitions returns the embedded PCIe register definitions, parsed and
// validated, in filename order.
func Definitions() ([]*schema.RawRegisterDef, error) {
	entries, err := defsFS.ReadDir("defs")
	if err != nil {
		return nil, fmt.Errorf("reading embedded defs: %w", err)
	}

	var defs []*schema.RawRegisterDef
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := defsFS.ReadFile("defs/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded def %s: %w", e.Name(), err)
		}
		def, err := schema.ParseRegisterDef(data)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded def %s: %w", e.Name(), err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating embedded def %s: %w", e.Name(), err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// NewSpace builds a register space from the embedded definitions. The result
// is equivalent to NewCapabilitySet().Space() but built through the schema
// path instead of the generated layouts.
func NewSpace() (*register.Space, error) {
	defs, err := Definitions()
	if err != nil {
		return nil, err
	}
	return schema.BuildSpace(SpaceName, defs)
}
