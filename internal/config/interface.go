package config

import "context"

// Loader is the interface for a format-specific plan loader.
type Loader interface {
	// Load reads every plan file under paths, evaluates it against vars and
	// returns the merged model. vars override variable defaults by name.
	Load(ctx context.Context, vars map[string]string, paths ...string) (*Model, error)
}
