package hcl_adapter

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// LookupEnvFunc resolves an environment variable. It matches os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// envFunction builds `env(name[, fallback])`. A missing variable yields the
// fallback, or an empty string when none is given.
func envFunction(lookup LookupEnvFunc) function.Function {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return function.New(&function.Spec{
		Description: "Returns the value of an environment variable.",
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		VarParam: &function.Parameter{Name: "fallback", Type: cty.String},
		Type:     function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			if v, ok := lookup(args[0].AsString()); ok {
				return cty.StringVal(v), nil
			}
			if len(args) > 1 {
				return args[1], nil
			}
			return cty.StringVal(""), nil
		},
	})
}

// functions returns the function table exposed to plan expressions.
func functions(lookup LookupEnvFunc) map[string]function.Function {
	return map[string]function.Function{
		"env":       envFunction(lookup),
		"upper":     stdlib.UpperFunc,
		"lower":     stdlib.LowerFunc,
		"format":    stdlib.FormatFunc,
		"join":      stdlib.JoinFunc,
		"trimspace": stdlib.TrimSpaceFunc,
	}
}

// evalContext exposes the resolved variables as `var.<name>`.
func evalContext(vars map[string]cty.Value, lookup LookupEnvFunc) *hcl.EvalContext {
	varObj := cty.EmptyObjectVal
	if len(vars) > 0 {
		varObj = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": varObj},
		Functions: functions(lookup),
	}
}
