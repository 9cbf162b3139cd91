package builder

import (
	"context"
	"fmt"

	"github.com/vk/gridsim/internal/binding"
	"github.com/vk/gridsim/internal/ctxlog"
	"github.com/vk/gridsim/internal/dag"
	"github.com/vk/gridsim/internal/instance"
	"github.com/vk/gridsim/internal/model"
)

// Build compiles a model definition into a runnable instance. On any
// failure no instance is produced.
func Build(ctx context.Context, def *model.Def) (*instance.ModelInstance, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting model compilation.", "namespace", def.Namespace(), "components", len(def.ComponentNames()))

	if !def.TimeSet() {
		return nil, fmt.Errorf("model %s: time dimension not set", def.Namespace())
	}
	rev := def.Revision()

	bounds, err := resolvePeriods(def)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: period resolution complete.")

	if err := validateConnections(def); err != nil {
		return nil, err
	}
	if err := validateGraph(ctx, def); err != nil {
		return nil, err
	}
	logger.Debug("Build: connection validation complete.")

	varHandles, err := allocVariables(def, bounds)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: variable storage allocated.")

	paramBind := make(map[string]map[string]any)
	for _, name := range def.ComponentNames() {
		paramBind[name] = make(map[string]any)
	}

	connectors, err := wireInternal(ctx, def, bounds, varHandles, paramBind)
	if err != nil {
		return nil, err
	}
	if err := wireExternal(ctx, def, paramBind); err != nil {
		return nil, err
	}
	if err := checkUnbound(def, paramBind); err != nil {
		return nil, err
	}
	logger.Debug("Build: parameter binding complete.")

	comps, err := assemble(def, bounds, varHandles, paramBind, connectors)
	if err != nil {
		return nil, err
	}

	mi, err := instance.NewModelInstance(def, rev, comps, def.InternalConnections())
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: model compilation successful.", "instances", len(mi.ComponentNames()))
	return mi, nil
}

// periodBounds is a component's resolved, concrete run range.
type periodBounds struct {
	first int
	last  int
}

// resolvePeriods computes each component's concrete (first, last) pair:
// the per-instance override if set, else the schema's explicit bounds,
// else the model's full range. The result must lie on the model's time
// grid.
func resolvePeriods(def *model.Def) (map[string]periodBounds, error) {
	mFirst, step, mLast := def.TimeRange()
	out := make(map[string]periodBounds)

	for _, name := range def.ComponentNames() {
		cd, _ := def.Component(name)
		first, last := mFirst, mLast

		if f, l := cd.Bounds(); f != nil {
			first = *f
			if l != nil {
				last = *l
			}
		} else if l != nil {
			last = *l
		}
		if f, l, _ := def.ComponentBounds(name); f != nil || l != nil {
			if f != nil {
				first = *f
			}
			if l != nil {
				last = *l
			}
		}

		if first < mFirst || last > mLast {
			return nil, fmt.Errorf("component %q: run range [%d,%d] exceeds the model range [%d,%d]",
				name, first, last, mFirst, mLast)
		}
		if (first-mFirst)%step != 0 || (last-first)%step != 0 {
			return nil, fmt.Errorf("component %q: run range [%d,%d] does not align with the model's step %d",
				name, first, last, step)
		}
		out[name] = periodBounds{first: first, last: last}
	}
	return out, nil
}

// validateConnections performs the build-time half of connection checking:
// every referenced datum must exist, and a connected variable/parameter
// pair must agree on dimensions.
func validateConnections(def *model.Def) error {
	for _, conn := range def.InternalConnections() {
		src, ok := def.Component(conn.SrcComponent)
		if !ok {
			return &model.UnknownReferenceError{Kind: "component", Name: conn.SrcComponent, Scope: "model " + def.Namespace()}
		}
		dst, ok := def.Component(conn.DstComponent)
		if !ok {
			return &model.UnknownReferenceError{Kind: "component", Name: conn.DstComponent, Scope: "model " + def.Namespace()}
		}
		srcVar, ok := src.Variable(conn.SrcVariable)
		if !ok {
			return &model.UnknownReferenceError{Kind: "variable", Name: conn.SrcVariable, Scope: "component " + conn.SrcComponent}
		}
		dstParam, ok := dst.Parameter(conn.DstParameter)
		if !ok {
			return &model.UnknownReferenceError{Kind: "parameter", Name: conn.DstParameter, Scope: "component " + conn.DstComponent}
		}
		if !sameDims(srcVar.Dims, dstParam.Dims) {
			return fmt.Errorf("connection %s.%s -> %s.%s: dimension mismatch (%v vs %v)",
				conn.SrcComponent, conn.SrcVariable, conn.DstComponent, conn.DstParameter,
				srcVar.Dims, dstParam.Dims)
		}
	}
	for _, conn := range def.ExternalConnections() {
		cd, ok := def.Component(conn.Component)
		if !ok {
			return &model.UnknownReferenceError{Kind: "component", Name: conn.Component, Scope: "model " + def.Namespace()}
		}
		if _, ok := cd.Parameter(conn.Parameter); !ok {
			return &model.UnknownReferenceError{Kind: "parameter", Name: conn.Parameter, Scope: "component " + conn.Component}
		}
	}
	return nil
}

func sameDims(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// validateGraph rejects cyclic data flow and warns about connections whose
// source is declared after its destination. Declaration order is execution
// order, so a late-declared source has produced nothing when its
// destination runs; the original system trusts the author here, so this
// stays a warning rather than an error.
func validateGraph(ctx context.Context, def *model.Def) error {
	logger := ctxlog.FromContext(ctx)

	g := dag.New()
	for _, name := range def.ComponentNames() {
		g.AddNode(name)
	}
	for _, conn := range def.InternalConnections() {
		if err := g.AddEdge(conn.SrcComponent, conn.DstComponent); err != nil {
			return fmt.Errorf("invalid connection graph: %w", err)
		}
	}
	if err := g.DetectCycles(); err != nil {
		return fmt.Errorf("invalid connection graph: %w", err)
	}
	for _, edge := range g.BackEdges() {
		logger.Warn("Connection source is declared after its destination; the destination will read unset values.",
			"source", edge[0], "destination", edge[1])
	}
	return nil
}

// allocVariables creates every component's variable storage over its
// resolved run range.
func allocVariables(def *model.Def, bounds map[string]periodBounds) (map[string]map[string]any, error) {
	_, step, _ := def.TimeRange()
	out := make(map[string]map[string]any)

	for _, name := range def.ComponentNames() {
		cd, _ := def.Component(name)
		b := bounds[name]
		handles := make(map[string]any)
		for _, vn := range cd.VariableNames() {
			d, _ := cd.Variable(vn)
			h, err := allocStorage(def, d, b.first, b.last, step, "component "+name)
			if err != nil {
				return nil, fmt.Errorf("component %q: %w", name, err)
			}
			handles[vn] = h
		}
		out[name] = handles
	}
	return out, nil
}

// wireInternal binds every internally connected parameter, synthesizing a
// connector wherever the destination's range exceeds the source's. It
// returns the connectors to insert, keyed by the destination they precede.
func wireInternal(
	ctx context.Context,
	def *model.Def,
	bounds map[string]periodBounds,
	varHandles map[string]map[string]any,
	paramBind map[string]map[string]any,
) (map[string][]*instance.Component, error) {
	logger := ctxlog.FromContext(ctx)
	connectors := make(map[string][]*instance.Component)
	seq := 0

	for _, conn := range def.InternalConnections() {
		srcHandle := varHandles[conn.SrcComponent][conn.SrcVariable]
		srcBounds := bounds[conn.SrcComponent]
		dstBounds := bounds[conn.DstComponent]

		if _, rebound := paramBind[conn.DstComponent][conn.DstParameter]; rebound {
			logger.Warn("Parameter is connected more than once; the later connection wins.",
				"component", conn.DstComponent, "parameter", conn.DstParameter)
		}

		covered := srcBounds.first <= dstBounds.first && srcBounds.last >= dstBounds.last
		if covered {
			paramBind[conn.DstComponent][conn.DstParameter] = srcHandle
			continue
		}

		if conn.Backup == "" {
			return nil, &MissingBackupError{
				SrcComponent: conn.SrcComponent,
				DstComponent: conn.DstComponent,
				DstParameter: conn.DstParameter,
			}
		}

		src, _ := def.Component(conn.SrcComponent)
		srcDatum, _ := src.Variable(conn.SrcVariable)
		seq++
		connector, dstHandle, err := synthesizeConnector(def, seq, conn, srcHandle, srcDatum, dstBounds.first, dstBounds.last)
		if err != nil {
			return nil, err
		}
		logger.Debug("Build: synthesized connector.",
			"connector", connector.Name, "source", conn.SrcComponent, "destination", conn.DstComponent, "backup", conn.Backup)

		connectors[conn.DstComponent] = append(connectors[conn.DstComponent], connector)
		paramBind[conn.DstComponent][conn.DstParameter] = dstHandle
	}
	return connectors, nil
}

// wireExternal binds every externally connected parameter to a copy of its
// registry value.
func wireExternal(ctx context.Context, def *model.Def, paramBind map[string]map[string]any) error {
	logger := ctxlog.FromContext(ctx)

	for _, conn := range def.ExternalConnections() {
		value, _ := def.Param(conn.Key)
		if value == nil {
			return &UnboundParameterError{
				Component: conn.Component,
				Parameter: conn.Parameter,
				Reason:    fmt.Sprintf("external parameter %q was never assigned a value", conn.Key),
			}
		}
		cd, _ := def.Component(conn.Component)
		d, _ := cd.Parameter(conn.Parameter)

		if _, rebound := paramBind[conn.Component][conn.Parameter]; rebound {
			logger.Warn("Parameter is connected more than once; the later connection wins.",
				"component", conn.Component, "parameter", conn.Parameter)
		}

		h, err := externalStorage(def, d, value, conn.Component)
		if err != nil {
			return err
		}
		paramBind[conn.Component][conn.Parameter] = h
	}
	return nil
}

// checkUnbound fails the build on the first parameter with no binding.
func checkUnbound(def *model.Def, paramBind map[string]map[string]any) error {
	for _, name := range def.ComponentNames() {
		cd, _ := def.Component(name)
		for _, pn := range cd.ParameterNames() {
			if _, ok := paramBind[name][pn]; !ok {
				return &UnboundParameterError{Component: name, Parameter: pn}
			}
		}
	}
	return nil
}

// assemble produces the final execution order: components in declaration
// order, each preceded by the connectors synthesized for it, with bound
// views built in schema declaration order.
func assemble(
	def *model.Def,
	bounds map[string]periodBounds,
	varHandles map[string]map[string]any,
	paramBind map[string]map[string]any,
	connectors map[string][]*instance.Component,
) ([]*instance.Component, error) {
	var comps []*instance.Component

	for _, name := range def.ComponentNames() {
		comps = append(comps, connectors[name]...)

		cd, _ := def.Component(name)
		b := bounds[name]

		params := &binding.Params{View: binding.NewView()}
		for _, pn := range cd.ParameterNames() {
			if err := params.Bind(pn, paramBind[name][pn]); err != nil {
				return nil, fmt.Errorf("component %q: %w", name, err)
			}
		}
		vars := &binding.Vars{View: binding.NewView()}
		for _, vn := range cd.VariableNames() {
			if err := vars.Bind(vn, varHandles[name][vn]); err != nil {
				return nil, fmt.Errorf("component %q: %w", name, err)
			}
		}

		if cd.Update() == nil {
			return nil, fmt.Errorf("component %q (%s) has no update routine", name, cd.ID())
		}

		comps = append(comps, &instance.Component{
			ID:       cd.ID(),
			Name:     name,
			Params:   params,
			Vars:     vars,
			Dims:     usedDims(cd),
			First:    b.first,
			Last:     b.last,
			UpdateFn: cd.Update(),
		})
	}
	return comps, nil
}

// usedDims collects the dimension names a component's data actually
// references, in first-use order.
func usedDims(cd *model.ComponentDef) []string {
	seen := make(map[string]bool)
	var dims []string
	add := func(d model.DatumDef) {
		for _, dim := range d.Dims {
			if !seen[dim] {
				seen[dim] = true
				dims = append(dims, dim)
			}
		}
	}
	for _, vn := range cd.VariableNames() {
		d, _ := cd.Variable(vn)
		add(d)
	}
	for _, pn := range cd.ParameterNames() {
		d, _ := cd.Parameter(pn)
		add(d)
	}
	return dims
}
