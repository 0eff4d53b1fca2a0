package builtin

import (
	"fmt"

	"chunkproc/internal/config"
	"chunkproc/internal/transformer"
)

// Build turns the configured transform steps into an executable chain.
// Unknown kinds fail at build time, before any data is read.
func Build(steps []config.Transform) (transformer.Chain, error) {
	ch := make(transformer.Chain, 0, len(steps))
	for i, s := range steps {
		t, err := fromConfig(s)
		if err != nil {
			return nil, fmt.Errorf("transform[%d]: %w", i, err)
		}
		ch = append(ch, t)
	}
	return ch, nil
}

// fromConfig constructs a single transformer from its kind and options bag.
func fromConfig(s config.Transform) (transformer.Transformer, error) {
	switch s.Kind {
	case "normalize":
		return Normalize{}, nil
	case "require":
		fields := s.Options.StringSlice("fields")
		if len(fields) == 0 {
			return nil, fmt.Errorf("require: options.fields must list at least one field")
		}
		return Require{Fields: fields}, nil
	case "dedup":
		keys := s.Options.StringSlice("keys")
		if len(keys) == 0 {
			return nil, fmt.Errorf("dedup: options.keys must list at least one field")
		}
		return DeDup{Keys: keys, Policy: s.Options.String("policy", "")}, nil
	case "snake_case_columns":
		return SnakeCaseColumns{}, nil
	default:
		return nil, fmt.Errorf("unknown transform kind %q", s.Kind)
	}
}
