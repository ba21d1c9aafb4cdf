package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// variablesRoot is the first-pass view of a file: only variables.
type variablesRoot struct {
	Variables []*Variable `hcl:"variable,block"`
	Remain    hcl.Body    `hcl:",remain"`
}

// fileRoot is the second-pass view of a file. It has no remain field, so
// any unknown block is a decode error. Variables are listed again so that
// they are accepted.
type fileRoot struct {
	Variables []*Variable `hcl:"variable,block"`
	Models    []*Model    `hcl:"model,block"`
	Agents    []*Agent    `hcl:"agent,block"`
	Steps     []*Step     `hcl:"step,block"`
}

// Variable maps to a `variable "<name>" {}` block.
type Variable struct {
	Name        string         `hcl:"name,label"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
	DeclRange   hcl.Range      `hcl:",def_range"`
}

// Model maps to a `model "<name>" {}` block.
type Model struct {
	Name        string    `hcl:"name,label"`
	Type        string    `hcl:"type"`
	ModelName   string    `hcl:"model_name"`
	BaseURL     string    `hcl:"base_url,optional"`
	APIKey      string    `hcl:"api_key,optional"`
	Temperature *float64  `hcl:"temperature,optional"`
	MaxTokens   int       `hcl:"max_tokens,optional"`
	Timeout     string    `hcl:"timeout,optional"`
	DeclRange   hcl.Range `hcl:",def_range"`
}

// Agent maps to an `agent "<kind>" {}` block.
type Agent struct {
	Kind       string    `hcl:"kind,label"`
	Model      string    `hcl:"model"`
	MaxRetries *int      `hcl:"max_retries,optional"`
	DeclRange  hcl.Range `hcl:",def_range"`
}

// Step maps to a `step "<kind>" "<id>" {}` block.
type Step struct {
	Kind              string    `hcl:"kind,label"`
	ID                string    `hcl:"id,label"`
	Task              string    `hcl:"task"`
	Next              []string  `hcl:"next,optional"`
	DependsOn         []string  `hcl:"depends_on,optional"`
	AddContext        string    `hcl:"add_context,optional"`
	ExpectedLayoutIDs []string  `hcl:"expected_layout_ids,optional"`
	LayoutID          string    `hcl:"layout_id,optional"`
	DeclRange         hcl.Range `hcl:",def_range"`
}
