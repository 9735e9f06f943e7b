package hclconf

import (
	"github.com/hashicorp/hcl/v2"
)

// verticleConfig represents the content of the 'config' block within a
// verticle. Its attributes are free-form and owned by the verticle factory.
type verticleConfig struct {
	Body hcl.Body `hcl:",remain"`
}

// verticleBlock represents a `verticle` block from a startup file.
type verticleBlock struct {
	Name      string          `hcl:"name,label"`
	Instances *int            `hcl:"instances,optional"`
	DependsOn []string        `hcl:"depends_on,optional"`
	Config    *verticleConfig `hcl:"config,block"`
}

// fileSchema represents the top-level structure of a startup file.
type fileSchema struct {
	AbortOnFailure *bool            `hcl:"abort_on_failure,optional"`
	MessageCodecs  []string         `hcl:"message_codecs,optional"`
	Verticles      []*verticleBlock `hcl:"verticle,block"`
}
