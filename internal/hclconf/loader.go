package hclconf

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/vesselgo/internal/config"
	"github.com/vk/vesselgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL startup file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the startup file at path, or every .hcl file under it when
// path is a directory, and merges the results into a single model. Scalar
// options take the last file's value; verticle names must be unique across
// all files.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	filePaths, err := findStartupFiles(path)
	if err != nil {
		return nil, err
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("no .hcl startup files found at %s", path)
	}
	logger.Debug("Found startup files to load.", "files", filePaths)

	model := &config.Model{
		Verticles: make(map[string]*config.VerticleDefinition),
	}

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse startup file %s: %w", filePath, diags)
		}

		var schema fileSchema
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &schema); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode startup file %s: %w", filePath, diags)
		}

		if err := l.mergeFile(model, &schema, filePath); err != nil {
			return nil, err
		}
		logger.Debug("Successfully loaded startup file.", "file", filePath)
	}

	logger.Info("Startup configuration loaded.",
		"message_codecs", len(model.MessageCodecs),
		"verticles", len(model.Verticles))
	return model, nil
}

// mergeFile folds one decoded file into the accumulated model.
func (l *Loader) mergeFile(model *config.Model, schema *fileSchema, filePath string) error {
	if schema.AbortOnFailure != nil {
		model.AbortOnFailure = schema.AbortOnFailure
	}
	model.MessageCodecs = append(model.MessageCodecs, schema.MessageCodecs...)

	for _, block := range schema.Verticles {
		if _, exists := model.Verticles[block.Name]; exists {
			return fmt.Errorf("startup file %s: verticle %q defined more than once", filePath, block.Name)
		}
		def, err := translateVerticle(block, filePath)
		if err != nil {
			return err
		}
		model.Verticles[block.Name] = def
	}
	return nil
}

// translateVerticle converts the HCL-specific verticle schema into the
// agnostic model.
func translateVerticle(block *verticleBlock, filePath string) (*config.VerticleDefinition, error) {
	def := &config.VerticleDefinition{
		Name:      block.Name,
		Instances: 1,
		DependsOn: block.DependsOn,
	}

	if block.Instances != nil {
		if *block.Instances < 1 {
			return nil, fmt.Errorf("startup file %s: verticle %q: instances must be at least 1", filePath, block.Name)
		}
		def.Instances = *block.Instances
	}

	if block.Config != nil && block.Config.Body != nil {
		attrs, diags := block.Config.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("startup file %s: verticle %q: %w", filePath, block.Name, diags)
		}
		def.Config = make(map[string]cty.Value, len(attrs))
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("startup file %s: verticle %q: evaluating config attribute %q: %w", filePath, block.Name, name, diags)
			}
			def.Config[name] = val
		}
	}

	return def, nil
}

// findStartupFiles resolves path to the list of .hcl files it denotes.
func findStartupFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
