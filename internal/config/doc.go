// Package config defines the format-agnostic plan model: the step graph,
// the model endpoints and the agent bindings that drive one run.
//
// Concrete loaders, such as the HCL one in hcl_adapter, translate their
// own syntax into a config.Model. Nothing downstream of the loader knows
// which format a plan came from.
package config
