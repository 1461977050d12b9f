package flow

import "github.com/hashicorp/hcl/v2"

// argsBlock captures the raw body of an arguments block; attributes are
// evaluated after decoding.
type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// outputBlock declares one output port of a source instance.
type outputBlock struct {
	Name   string `hcl:"port_name,label"`
	Buffer int    `hcl:"buffer,optional"`
}

// sourceBlock is a `source` block from a flow file.
type sourceBlock struct {
	Type      string         `hcl:"source_type,label"`
	Name      string         `hcl:"instance_name,label"`
	Arguments *argsBlock     `hcl:"arguments,block"`
	Outputs   []*outputBlock `hcl:"output,block"`
}

// settingsBlock carries flow-wide runtime settings.
type settingsBlock struct {
	GracePeriod string `hcl:"grace_period,optional"`
}

// fileSchema is the top-level structure of one flow file.
type fileSchema struct {
	Settings *settingsBlock `hcl:"settings,block"`
	Sources  []*sourceBlock `hcl:"source,block"`
}
