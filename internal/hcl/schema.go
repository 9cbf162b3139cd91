package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks a model file may carry. Blocks may
// be spread across any number of files; the single model block anchors the
// namespace and time axis.
type fileRoot struct {
	Model      *modelBlock       `hcl:"model,block"`
	Indexes    []*indexBlock     `hcl:"index,block"`
	Components []*componentBlock `hcl:"component,block"`
	Parameters []*parameterBlock `hcl:"parameter,block"`
	Binds      []*bindBlock      `hcl:"bind,block"`
	Connects   []*connectBlock   `hcl:"connect,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

// modelBlock declares the owning namespace and the shared time axis.
type modelBlock struct {
	Namespace string     `hcl:"namespace"`
	Time      *timeBlock `hcl:"time,block"`
}

// timeBlock declares the time dimension as a (first, step, last) triple.
type timeBlock struct {
	First int `hcl:"first"`
	Step  int `hcl:"step"`
	Last  int `hcl:"last"`
}

// indexBlock declares a categorical dimension from values or a bare count.
type indexBlock struct {
	Name   string   `hcl:"name,label"`
	Values []string `hcl:"values,optional"`
	Count  *int     `hcl:"count,optional"`
}

// componentBlock adds a registered component type under an instance name,
// optionally overriding its run range.
type componentBlock struct {
	Type  string `hcl:"component_type,label"`
	Name  string `hcl:"instance_name,label"`
	First *int   `hcl:"first,optional"`
	Last  *int   `hcl:"last,optional"`
}

// parameterBlock sets an external-parameter value by key. Exactly one of
// value (scalar) or values (list, possibly nested) must be present.
type parameterBlock struct {
	Key    string         `hcl:"key,label"`
	Value  hcl.Expression `hcl:"value,optional"`
	Values hcl.Expression `hcl:"values,optional"`
	Dims   []string       `hcl:"dims,optional"`
}

// bindBlock declares an external connection: component parameter to
// external-parameter key.
type bindBlock struct {
	Component string `hcl:"component"`
	Parameter string `hcl:"parameter"`
	Key       string `hcl:"key"`
}

// connectBlock declares an internal connection using "component.datum"
// references.
type connectBlock struct {
	From        string  `hcl:"from"`
	To          string  `hcl:"to"`
	Backup      *string `hcl:"backup,optional"`
	IgnoreUnits *bool   `hcl:"ignore_units,optional"`
}
