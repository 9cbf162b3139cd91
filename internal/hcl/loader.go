// Package hcl loads model declarations from .hcl files into a model.Def.
// The declaration surface covers model wiring only: the time axis,
// categorical indexes, component instances, connections, and external
// parameter values. Component schemas and update routines remain Go code
// registered with the registry.
package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/gridsim/internal/ctxlog"
	"github.com/vk/gridsim/internal/model"
	"github.com/vk/gridsim/internal/registry"
)

// Loader translates .hcl model files into a model.Def, resolving component
// type references against a registry.
type Loader struct {
	reg *registry.Registry
}

// NewLoader creates a loader bound to a component registry.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{reg: reg}
}

// Load parses every .hcl file under the given paths, merges their blocks,
// and assembles a model definition. Exactly one model block must be
// present across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Def, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered model files.", "count", len(files))

	merged := fileRoot{}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		if root.Model != nil {
			if merged.Model != nil {
				return nil, fmt.Errorf("%s: duplicate model block; a model must be declared exactly once", file)
			}
			merged.Model = root.Model
		}
		merged.Indexes = append(merged.Indexes, root.Indexes...)
		merged.Components = append(merged.Components, root.Components...)
		merged.Parameters = append(merged.Parameters, root.Parameters...)
		merged.Binds = append(merged.Binds, root.Binds...)
		merged.Connects = append(merged.Connects, root.Connects...)
	}

	if merged.Model == nil {
		return nil, fmt.Errorf("no model block found in %d file(s)", len(files))
	}
	return l.assemble(ctx, &merged)
}

// assemble builds the model.Def from merged blocks, in declaration-API
// order: time axis, indexes, components, parameters, binds, connects.
func (l *Loader) assemble(ctx context.Context, root *fileRoot) (*model.Def, error) {
	logger := ctxlog.FromContext(ctx)
	def := model.New(root.Model.Namespace)

	if root.Model.Time == nil {
		return nil, fmt.Errorf("model %q: missing time block", root.Model.Namespace)
	}
	tb := root.Model.Time
	if tb.Step <= 0 {
		return nil, fmt.Errorf("model %q: time step must be positive, got %d", root.Model.Namespace, tb.Step)
	}
	var labels []int
	for p := tb.First; p <= tb.Last; p += tb.Step {
		labels = append(labels, p)
	}
	if err := def.SetTimeLabels(labels); err != nil {
		return nil, err
	}

	for _, idx := range root.Indexes {
		var err error
		switch {
		case len(idx.Values) > 0:
			err = def.SetIndex(idx.Name, idx.Values)
		case idx.Count != nil:
			err = def.SetIndexCount(idx.Name, *idx.Count)
		default:
			err = fmt.Errorf("index %q: either values or count is required", idx.Name)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, cb := range root.Components {
		cd, err := l.reg.Resolve(cb.Type)
		if err != nil {
			return nil, err
		}
		var opts []model.AddOption
		if cb.First != nil || cb.Last != nil {
			first, _, last := def.TimeRange()
			if cb.First != nil {
				first = *cb.First
			}
			if cb.Last != nil {
				last = *cb.Last
			}
			opts = append(opts, model.WithBounds(first, last))
		}
		if err := def.AddComponent(cb.Name, cd, opts...); err != nil {
			return nil, err
		}
		logger.Debug("Added component instance.", "type", cb.Type, "name", cb.Name)
	}

	for _, pb := range root.Parameters {
		hasValue := !exprIsNull(pb.Value)
		hasValues := !exprIsNull(pb.Values)
		var (
			param model.Parameter
			err   error
		)
		switch {
		case hasValue && hasValues:
			return nil, fmt.Errorf("parameter %q: value and values are mutually exclusive", pb.Key)
		case hasValue:
			param, err = scalarParam(pb.Value)
		case hasValues:
			param, err = arrayParam(pb.Values, pb.Dims)
		default:
			return nil, fmt.Errorf("parameter %q: either value or values is required", pb.Key)
		}
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pb.Key, err)
		}
		def.SetParam(pb.Key, param)
	}

	for _, bb := range root.Binds {
		if err := def.ConnectExternal(bb.Component, bb.Parameter, bb.Key); err != nil {
			return nil, err
		}
	}

	for _, cb := range root.Connects {
		srcComp, srcVar, err := splitRef(cb.From)
		if err != nil {
			return nil, fmt.Errorf("connect: invalid from reference %q: %w", cb.From, err)
		}
		dstComp, dstParam, err := splitRef(cb.To)
		if err != nil {
			return nil, fmt.Errorf("connect: invalid to reference %q: %w", cb.To, err)
		}
		var opts []model.ConnOption
		if cb.Backup != nil && *cb.Backup != "" {
			opts = append(opts, model.WithBackup(*cb.Backup))
		}
		if cb.IgnoreUnits != nil && *cb.IgnoreUnits {
			opts = append(opts, model.IgnoreUnits())
		}
		if err := def.ConnectInternal(srcComp, srcVar, dstComp, dstParam, opts...); err != nil {
			return nil, err
		}
	}

	logger.Debug("Model definition assembled.",
		"namespace", def.Namespace(), "components", len(def.ComponentNames()),
		"internal_connections", len(def.InternalConnections()), "external_connections", len(def.ExternalConnections()))
	return def, nil
}

// exprIsNull reports whether an optional expression attribute was absent
// from the block (gohcl leaves the field nil or a null literal).
func exprIsNull(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return false
	}
	return val.IsNull()
}

// splitRef parses a "component.datum" reference.
func splitRef(ref string) (comp, datum string, err error) {
	comp, datum, ok := strings.Cut(ref, ".")
	if !ok || comp == "" || datum == "" {
		return "", "", fmt.Errorf("expected \"component.datum\"")
	}
	return comp, datum, nil
}

// findHCLFiles walks the given paths and returns every .hcl file found,
// deduplicated, in walk order.
func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if _, dup := seen[path]; !dup {
				files = append(files, path)
				seen[path] = struct{}{}
			}
			continue
		}
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && filepath.Ext(p) == ".hcl" {
				if _, dup := seen[p]; !dup {
					files = append(files, p)
					seen[p] = struct{}{}
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found under %v", paths)
	}
	return files, nil
}
