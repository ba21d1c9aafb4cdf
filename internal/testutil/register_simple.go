package testutil

import "github.com/specialistvlad/slidegridgo/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers any subset of the three step handlers.
type SimpleModule struct {
	Name       string
	Relayouter registry.RelayoutFunc
	Coupler    registry.CouplerFunc
	Executor   registry.ExecutorFunc
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	name := m.Name
	if name == "" {
		name = "simple"
	}
	if m.Relayouter != nil {
		r.RegisterRelayouter(name, m.Relayouter)
	}
	if m.Coupler != nil {
		r.RegisterCoupler(name, m.Coupler)
	}
	if m.Executor != nil {
		r.RegisterExecutor(name, m.Executor)
	}
}
