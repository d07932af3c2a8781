package tts

import "fmt"

// Config selects and configures an engine.
type Config struct {
	Engine    string
	Voice     string
	ModelPath string
	Speed     float64
}

// builders maps engine names to constructors. Engine packages register
// themselves at init time to avoid an import cycle.
var builders = map[string]func(Config) (Engine, error){}

// Register makes an engine constructor available under name.
func Register(name string, build func(Config) (Engine, error)) {
	builders[name] = build
}

// NewEngine builds the engine named in cfg.Engine.
func NewEngine(cfg Config) (Engine, error) {
	build, ok := builders[cfg.Engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEngine, cfg.Engine)
	}
	return build(cfg)
}

// Engines lists the registered engine names.
func Engines() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	return names
}
