package cook

import (
	"fmt"
	"strconv"

	"github.com/automoto/chrono-tiles/shared/tileset"
)

// SheetProperty is a custom property with its value decoded to a JSON
// number, bool or string according to its type.
type SheetProperty struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

func translateProperties(props tileset.Properties) ([]SheetProperty, error) {
	if len(props) == 0 {
		return nil, nil
	}
	out := make([]SheetProperty, 0, len(props))
	for _, p := range props {
		sp := SheetProperty{Name: p.Name, Type: p.Type, Value: p.Value}
		var err error
		switch p.Type {
		case "":
			sp.Type = "string"
		case "int", "object":
			sp.Value, err = strconv.ParseInt(p.Value, 10, 64)
		case "float":
			sp.Value, err = strconv.ParseFloat(p.Value, 64)
		case "bool":
			sp.Value, err = strconv.ParseBool(p.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}
		out = append(out, sp)
	}
	return out, nil
}
