package deploy

import (
	"fmt"
	"sort"

	"github.com/vk/vesselgo/internal/config"
)

// deployOrder produces a dependency-respecting order over the configured
// verticles: every verticle appears after everything in its depends_on
// list. Ties are broken alphabetically so the order is deterministic.
func deployOrder(verticles map[string]*config.VerticleDefinition) ([]string, error) {
	names := make([]string, 0, len(verticles))
	for name := range verticles {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	order := make([]string, 0, len(names))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle involving verticle %q (path: %v)", name, path)
		}
		state[name] = visiting

		def := verticles[name]
		deps := append([]string(nil), def.DependsOn...)
		sort.Strings(deps)
		for _, dep := range deps {
			if _, ok := verticles[dep]; !ok {
				return fmt.Errorf("verticle %q depends on %q, which is not configured", name, dep)
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}

		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}
