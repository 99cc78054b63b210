package search

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// DynamicKind tags a DynamicMemberTarget variant.
type DynamicKind int

const (
	DynOperationInput DynamicKind = iota
	DynOperationOutput
	DynShapeIDDependent
	DynMappedDependent
)

// DynamicMemberTarget substitutes a different resolution target for a
// specific member id inside a trait value or metadata object, instead of
// following the member's declared shape directly.
type DynamicMemberTarget struct {
	Kind    DynamicKind
	Sibling string            // member name to consult for ShapeIDDependent/MappedDependent
	Table   map[string]string // sibling value -> target shape id, for MappedDependent
}

// validatorConfigMapping maps a `validators` entry's `name` to the shape
// that documents its configuration, mirroring the frozen table the real
// validator registry exposes for hover/completion.
var validatorConfigMapping = map[string]string{
	"EmitEachSelector":   "smithy.api#Unit",
	"EmitNoneSelector":   "smithy.api#Unit",
	"UnreferencedShape":  "smithy.api#Unit",
	"AbbreviationName":   "smithy.api#Unit",
	"StutteredShapeName": "smithy.api#Unit",
}

// memberKey addresses one member of one of the frozen entry shapes
// (e.g. "SmokeTestCase$params").
type memberKey struct{ shape, member string }

// registry is the frozen per-(trait entry shape, member) set of dynamic
// targets. It is keyed by the entry shape the trait's value
// is built from (smithy.test#smokeTests' value is a list of
// SmokeTestCase; smithy.api#examples' is a list of Example; and so on),
// not by the trait id directly, since each trait's value object has
// several members with independent dynamic targets.
var registry = map[memberKey]DynamicMemberTarget{
	{"Example", "input"}:  {Kind: DynOperationInput},
	{"Example", "output"}: {Kind: DynOperationOutput},

	{"SmokeTestCase", "params"}:       {Kind: DynOperationInput},
	{"SmokeTestCase", "vendorParams"}: {Kind: DynShapeIDDependent, Sibling: "vendorParamsShape"},

	{"HttpRequestTestCase", "params"}:       {Kind: DynOperationInput},
	{"HttpRequestTestCase", "vendorParams"}: {Kind: DynShapeIDDependent, Sibling: "vendorParamsShape"},

	{"HttpResponseTestCase", "params"}: {Kind: DynOperationOutput},

	{"Validator", "configuration"}: {Kind: DynMappedDependent, Sibling: "name", Table: validatorConfigMapping},
}

// entryShapeByTraitID maps each registered trait id to the entry shape name
// their value list is built from, so callers that only know the trait id
// (from a TraitApplicationStatement) can reach the right registry row.
var entryShapeByTraitID = map[string]string{
	"smithy.api#examples":           "Example",
	"smithy.test#smokeTests":        "SmokeTestCase",
	"smithy.test#httpRequestTests":  "HttpRequestTestCase",
	"smithy.test#httpResponseTests": "HttpResponseTestCase",
	"validators":                    "Validator",
}

// LookupDynamicTarget returns the registered DynamicMemberTarget for a
// trait id (or the `validators` metadata key) plus the member name being
// resolved, if any.
func LookupDynamicTarget(traitID, member string) (DynamicMemberTarget, bool) {
	entryShape, ok := entryShapeByTraitID[traitID]
	if !ok {
		return DynamicMemberTarget{}, false
	}
	d, ok := registry[memberKey{entryShape, member}]
	return d, ok
}

// lookupByEntryShape is LookupDynamicTarget's counterpart for callers that
// already know the entry shape's simple name (the shape NodeSearch is
// currently positioned on) rather than the originating trait id,
// NodeSearch descends member by member and only has the former.
func lookupByEntryShape(entryShape, member string) (DynamicMemberTarget, bool) {
	d, ok := registry[memberKey{entryShape, member}]
	return d, ok
}

// resolveDynamicTarget computes d's effective target shape: owner is the
// shape the decorating trait/metadata is applied to (for
// OperationInput/OperationOutput); container is the node object d.Sibling
// is read from (for ShapeIDDependent/MappedDependent).
func resolveDynamicTarget(d DynamicMemberTarget, owner *model.Shape, container *syntax.Node, m *model.Model) (*model.Shape, bool) {
	switch d.Kind {
	case DynOperationInput:
		if owner == nil {
			return nil, false
		}
		return ResolveOperationMember(owner, false, m)
	case DynOperationOutput:
		if owner == nil {
			return nil, false
		}
		return ResolveOperationMember(owner, true, m)
	case DynShapeIDDependent, DynMappedDependent:
		val := siblingStringValue(container, d.Sibling)
		if val == "" {
			return nil, false
		}
		if d.Table != nil {
			mapped, ok := d.Table[val]
			if !ok {
				return nil, false
			}
			val = mapped
		}
		id, ok := model.ParseShapeID(val)
		if !ok {
			return nil, false
		}
		return m.GetShape(id)
	default:
		return nil, false
	}
}

// siblingStringValue reads a string-valued member named key directly out
// of container (the enclosing object node), or "" if absent/non-string.
func siblingStringValue(container *syntax.Node, key string) string {
	v := container.Obj(key)
	if v == nil || v.Kind != syntax.NodeString {
		return ""
	}
	return v.Value
}

// ResolveOperationMember finds op's input or output shape, used to
// implement OperationInput/OperationOutput once the owning operation has
// been located (the owning shape for a trait application like
// @examples is the operation itself).
func ResolveOperationMember(op *model.Shape, wantOutput bool, m *model.Model) (*model.Shape, bool) {
	name := "input"
	if wantOutput {
		name = "output"
	}
	mem, ok := op.MemberByName(name)
	if !ok {
		return nil, false
	}
	return m.GetShape(mem.Target)
}

// ResolveSiblingShapeID finds a sibling key's string value among kvps and
// parses it as a shape id, for ShapeIDDependent/MappedDependent targets.
func ResolveSiblingShapeID(kvps map[string]string, sibling string, table map[string]string) (model.ShapeID, bool) {
	val, ok := kvps[sibling]
	if !ok {
		return model.ShapeID{}, false
	}
	if table != nil {
		mapped, ok := table[val]
		if !ok {
			return model.ShapeID{}, false
		}
		val = mapped
	}
	return model.ParseShapeID(val)
}
