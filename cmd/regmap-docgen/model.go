package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/regmap-project/regmap-go/pkg/pcie"
	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/schema"
)

// DocModel holds the validated register data the pages are rendered from.
type DocModel struct {
	SpaceName string
	Registers []RegisterDoc // sorted by offset, offsetless defs last by name
	ByName    map[string]*RegisterDoc
}

// RegisterDoc is one register definition with its built layout.
type RegisterDoc struct {
	Name        string
	Offset      *uint64
	Description string
	Layout      *register.Layout
}

// BuildDocModel loads and validates all register definitions. An empty
// defsDir selects the embedded PCIe definitions.
func BuildDocModel(defsDir, spaceName string) (*DocModel, error) {
	var defs []*schema.RawRegisterDef
	var err error

	if defsDir == "" {
		defs, err = pcie.Definitions()
		if err != nil {
			return nil, err
		}
		if spaceName == "" {
			spaceName = pcie.SpaceName
		}
	} else {
		defs, err = schema.LoadDir(defsDir)
		if err != nil {
			return nil, err
		}
		if len(defs) == 0 {
			return nil, fmt.Errorf("no register definitions in %s", defsDir)
		}
		if spaceName == "" {
			spaceName = filepath.Base(defsDir)
		}
	}

	model := &DocModel{
		SpaceName: spaceName,
		ByName:    make(map[string]*RegisterDoc, len(defs)),
	}

	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("definition %s: %w", def.Register, err)
		}
		layout, err := def.BuildLayout()
		if err != nil {
			return nil, fmt.Errorf("definition %s: %w", def.Register, err)
		}
		model.Registers = append(model.Registers, RegisterDoc{
			Name:        def.Register,
			Offset:      def.Offset,
			Description: def.Description,
			Layout:      layout,
		})
	}

	sort.Slice(model.Registers, func(i, j int) bool {
		a, b := model.Registers[i], model.Registers[j]
		switch {
		case a.Offset != nil && b.Offset != nil && *a.Offset != *b.Offset:
			return *a.Offset < *b.Offset
		case a.Offset != nil && b.Offset == nil:
			return true
		case a.Offset == nil && b.Offset != nil:
			return false
		default:
			return a.Name < b.Name
		}
	})

	for i := range model.Registers {
		model.ByName[model.Registers[i].Name] = &model.Registers[i]
	}

	return model, nil
}
