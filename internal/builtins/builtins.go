// Package builtins holds the frozen, embedded model of Smithy's own
// controls, metadata keys, and per-shape-type member structure. It is loaded once and is thereafter read-only
// process-wide state; there is no teardown and no other global.
package builtins

import "sync"

// Member describes one structural member a builtin shape type supports
// (e.g. `service`'s `operations` member, or `operation`'s `input`).
type Member struct {
	Name   string
	Target string // target shape/shape-set description, for hover text
	Doc    string
}

// ShapeType is the builtin member structure for one Smithy shape kind.
type ShapeType struct {
	Name    string
	Doc     string
	Members []Member
}

// KeyDoc is a (key, documentation) pair shared by controls and metadata.
type KeyDoc struct {
	Key string
	Doc string
}

// TraitDoc documents one prelude trait for hover/completion.
type TraitDoc struct {
	ID       string // short name, e.g. "required"
	FullID   string // smithy.api#required
	Doc      string
	Required []Member // for structure-shaped trait values, the members completion fills in
}

// Model is the full frozen Builtins model.
type Model struct {
	Controls   []KeyDoc
	Metadata   []KeyDoc
	ShapeTypes map[string]ShapeType
	Traits     map[string]TraitDoc // keyed by short id ("documentation")
}

var (
	once     sync.Once
	instance *Model
)

// Get returns the process-wide Builtins model, building it on first use.
func Get() *Model {
	once.Do(func() {
		instance = build()
	})
	return instance
}

func build() *Model {
	m := &Model{
		Controls: []KeyDoc{
			{Key: "version", Doc: "The version of the IDL being used in this file."},
			{Key: "operationInputSuffix", Doc: "Overrides the default `Input` suffix used for inline operation input shapes."},
			{Key: "operationOutputSuffix", Doc: "Overrides the default `Output` suffix used for inline operation output shapes."},
		},
		Metadata: []KeyDoc{
			{Key: "suppressions", Doc: "Suppresses validation events for the model."},
			{Key: "validators", Doc: "Configures additional model validators to run."},
			{Key: "authorizationTests", Doc: "Declares authorization test cases for a service."},
		},
		ShapeTypes: map[string]ShapeType{
			"service": {
				Name: "service",
				Doc:  "Defines the entry point of an API.",
				Members: []Member{
					{Name: "version", Target: "string", Doc: "The API's version string."},
					{Name: "operations", Target: "[Operation]", Doc: "Operations bound directly to the service."},
					{Name: "resources", Target: "[Resource]", Doc: "Resources bound directly to the service."},
					{Name: "errors", Target: "[Structure]", Doc: "Common errors bound to every operation."},
					{Name: "rename", Target: "map<ShapeId, String>", Doc: "Renames shapes with conflicting names in this service's closure."},
				},
			},
			"resource": {
				Name: "resource",
				Doc:  "Defines a resource with identifiers and lifecycle operations.",
				Members: []Member{
					{Name: "identifiers", Target: "map<String, Shape>", Doc: "Identifier bindings for this resource."},
					{Name: "properties", Target: "map<String, Shape>", Doc: "Property bindings for this resource."},
					{Name: "create", Target: "Operation", Doc: "Lifecycle operation used to create a resource."},
					{Name: "put", Target: "Operation", Doc: "Lifecycle operation used to create or replace a resource by identifier."},
					{Name: "read", Target: "Operation", Doc: "Lifecycle operation used to retrieve a resource."},
					{Name: "update", Target: "Operation", Doc: "Lifecycle operation used to update a resource."},
					{Name: "delete", Target: "Operation", Doc: "Lifecycle operation used to delete a resource."},
					{Name: "list", Target: "Operation", Doc: "Lifecycle operation used to list resources."},
					{Name: "operations", Target: "[Operation]", Doc: "Non-lifecycle operations bound to this resource."},
					{Name: "collectionOperations", Target: "[Operation]", Doc: "Operations bound to the resource's collection."},
					{Name: "resources", Target: "[Resource]", Doc: "Resources bound to this resource."},
				},
			},
			"operation": {
				Name: "operation",
				Doc:  "Defines an RPC operation.",
				Members: []Member{
					{Name: "input", Target: "Structure", Doc: "The input shape of this operation."},
					{Name: "output", Target: "Structure", Doc: "The output shape of this operation."},
					{Name: "errors", Target: "[Structure]", Doc: "Errors this operation can return."},
				},
			},
			"list": {
				Name: "list",
				Doc:  "An ordered homogeneous collection of values.",
				Members: []Member{
					{Name: "member", Target: "Shape", Doc: "The shape of values in this list."},
				},
			},
			"map": {
				Name: "map",
				Doc:  "A map data structure.",
				Members: []Member{
					{Name: "key", Target: "Shape", Doc: "The shape of this map's keys."},
					{Name: "value", Target: "Shape", Doc: "The shape of this map's values."},
				},
			},
			"structure":  {Name: "structure", Doc: "An aggregate type with named, typed members."},
			"union":      {Name: "union", Doc: "A tagged union data structure."},
			"enum":       {Name: "enum", Doc: "An enumeration of string values."},
			"intEnum":    {Name: "intEnum", Doc: "An enumeration of integer values."},
			"string":     {Name: "string", Doc: "A UTF-8 string."},
			"blob":       {Name: "blob", Doc: "Uninterpreted binary data."},
			"boolean":    {Name: "boolean", Doc: "A Boolean value type."},
			"byte":       {Name: "byte", Doc: "An 8-bit signed integer."},
			"short":      {Name: "short", Doc: "A 16-bit signed integer."},
			"integer":    {Name: "integer", Doc: "A 32-bit signed integer."},
			"long":       {Name: "long", Doc: "A 64-bit signed integer."},
			"float":      {Name: "float", Doc: "A single-precision IEEE 754 floating point number."},
			"double":     {Name: "double", Doc: "A double-precision IEEE 754 floating point number."},
			"bigInteger": {Name: "bigInteger", Doc: "An arbitrary precision integer."},
			"bigDecimal": {Name: "bigDecimal", Doc: "An arbitrary precision decimal number."},
			"timestamp":  {Name: "timestamp", Doc: "An instant in time."},
			"document":   {Name: "document", Doc: "An untyped JSON-like value."},
		},
		Traits: map[string]TraitDoc{
			"documentation": {ID: "documentation", FullID: "smithy.api#documentation", Doc: "Adds documentation to a shape or member."},
			"required":      {ID: "required", FullID: "smithy.api#required", Doc: "Marks a structure member as required."},
			"error":         {ID: "error", FullID: "smithy.api#error", Doc: "Marks a structure as an error (\"client\" or \"server\")."},
			"http":          {ID: "http", FullID: "smithy.api#http", Doc: "Binds an operation to an HTTP method and URI pattern.", Required: []Member{{Name: "method", Target: "string"}, {Name: "uri", Target: "string"}}},
			"httpLabel":     {ID: "httpLabel", FullID: "smithy.api#httpLabel", Doc: "Binds a member to a label in the HTTP URI."},
			"httpQuery":     {ID: "httpQuery", FullID: "smithy.api#httpQuery", Doc: "Binds a member to an HTTP query string parameter."},
			"httpHeader":    {ID: "httpHeader", FullID: "smithy.api#httpHeader", Doc: "Binds a member to an HTTP header."},
			"httpPayload":   {ID: "httpPayload", FullID: "smithy.api#httpPayload", Doc: "Binds a member to the HTTP message payload."},
			"length":        {ID: "length", FullID: "smithy.api#length", Doc: "Constrains a shape's value length."},
			"pattern":       {ID: "pattern", FullID: "smithy.api#pattern", Doc: "Constrains string values to a regular expression."},
			"range":         {ID: "range", FullID: "smithy.api#range", Doc: "Constrains a numeric shape's value range."},
			"private":       {ID: "private", FullID: "smithy.api#private", Doc: "Marks a shape as private, excluding it from other namespaces."},
			"deprecated":    {ID: "deprecated", FullID: "smithy.api#deprecated", Doc: "Marks a shape as deprecated."},
			"since":         {ID: "since", FullID: "smithy.api#since", Doc: "Documents the version a shape was added in."},
			"unstable":      {ID: "unstable", FullID: "smithy.api#unstable", Doc: "Marks a shape as unstable and subject to change."},
			"examples":      {ID: "examples", FullID: "smithy.api#examples", Doc: "Provides example inputs/outputs for an operation."},
			"trait":         {ID: "trait", FullID: "smithy.api#trait", Doc: "Marks a shape as a trait definition."},
			"mixin":         {ID: "mixin", FullID: "smithy.api#mixin", Doc: "Marks a shape as a mixin, contributing members to shapes that include it."},
			"idRef":         {ID: "idRef", FullID: "smithy.api#idRef", Doc: "Marks a string as a reference to a shape id."},
			"tags":          {ID: "tags", FullID: "smithy.api#tags", Doc: "Attaches tags to a shape."},
			"enumValue":     {ID: "enumValue", FullID: "smithy.api#enumValue", Doc: "Binds a custom value to an enum member."},
			"paginated":     {ID: "paginated", FullID: "smithy.api#paginated", Doc: "Marks an operation as paginated."},
			"readonly":      {ID: "readonly", FullID: "smithy.api#readonly", Doc: "Marks an operation as read-only."},
			"idempotent":    {ID: "idempotent", FullID: "smithy.api#idempotent", Doc: "Marks an operation as idempotent."},
		},
	}
	return m
}

// ControlDoc looks up a control key's documentation.
func (m *Model) ControlDoc(key string) (string, bool) {
	for _, kd := range m.Controls {
		if kd.Key == key {
			return kd.Doc, true
		}
	}
	return "", false
}

// MetadataDoc looks up a metadata key's documentation.
func (m *Model) MetadataDoc(key string) (string, bool) {
	for _, kd := range m.Metadata {
		if kd.Key == key {
			return kd.Doc, true
		}
	}
	return "", false
}

// MemberDoc looks up a structural member's documentation for a shape type.
func (m *Model) MemberDoc(shapeType, member string) (Member, bool) {
	st, ok := m.ShapeTypes[shapeType]
	if !ok {
		return Member{}, false
	}
	for _, mem := range st.Members {
		if mem.Name == member {
			return mem, true
		}
	}
	return Member{}, false
}

// StructuralMembers returns the fixed member set of a builtin shape type
// (e.g. "operation" -> input, output, errors), used by Completion's
// MemberName candidate set.
func (m *Model) StructuralMembers(shapeType string) []Member {
	return m.ShapeTypes[shapeType].Members
}
