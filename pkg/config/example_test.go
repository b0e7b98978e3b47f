package config_test

import (
	"fmt"

	"github.com/riteshk28/Lighthouse/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Store backend: %s\n", cfg.Store.Backend)
	fmt.Printf("Export pixel ratio: %.0f\n", cfg.Export.PixelRatio)
}
