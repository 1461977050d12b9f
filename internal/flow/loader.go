package flow

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Load parses the flow file or directory at path into a Model. Directories
// are walked recursively for .hcl files, which are merged in path order.
func Load(path string) (*Model, error) {
	files, err := findFlowFiles(path)
	if err != nil {
		return nil, fmt.Errorf("discovering flow files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl flow files found under %q", path)
	}

	model := &Model{}
	parser := hclparse.NewParser()
	seen := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var schema fileSchema
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &schema); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}

		if schema.Settings != nil && schema.Settings.GracePeriod != "" {
			d, err := time.ParseDuration(schema.Settings.GracePeriod)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid grace_period: %w", file, err)
			}
			model.GracePeriod = d
		}

		for _, block := range schema.Sources {
			if prev, dup := seen[block.Name]; dup {
				return nil, fmt.Errorf("%s: duplicate source instance %q (first declared in %s)", file, block.Name, prev)
			}
			seen[block.Name] = file

			decl, err := translateSource(block)
			if err != nil {
				return nil, fmt.Errorf("%s: source %q: %w", file, block.Name, err)
			}
			model.Sources = append(model.Sources, decl)
		}
	}

	return model, nil
}

func translateSource(block *sourceBlock) (*SourceDecl, error) {
	decl := &SourceDecl{
		Type:      block.Type,
		Name:      block.Name,
		Arguments: map[string]cty.Value{},
	}

	if block.Arguments != nil {
		attrs, diags := block.Arguments.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("reading arguments: %w", diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("evaluating argument %q: %w", name, diags)
			}
			decl.Arguments[name] = val
		}
	}

	ports := make(map[string]bool)
	for _, out := range block.Outputs {
		if out.Buffer < 0 {
			return nil, fmt.Errorf("output %q: buffer cannot be negative", out.Name)
		}
		if ports[out.Name] {
			return nil, fmt.Errorf("duplicate output port %q", out.Name)
		}
		ports[out.Name] = true
		decl.Ports = append(decl.Ports, PortDecl{Name: out.Name, Buffer: out.Buffer})
	}

	return decl, nil
}

// findFlowFiles returns path itself when it is a file, otherwise every .hcl
// file under it.
func findFlowFiles(path string) ([]string, error) {
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
