package builtins

import (
	"strings"
	"sync"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
)

// syntheticNamespace holds the shapes that describe the language's own
// metadata and node-member value structures. They aren't part of any
// user model or the prelude proper, so they live in their own namespace.
const syntheticNamespace = "smithy.synthetic"

var (
	semOnce  sync.Once
	semModel *model.Model
)

// SemanticModel returns the Builtins data assembled as a model, so
// NodeSearch can walk metadata values and node-member values with the
// same traversal rules it applies to trait values against the user
// model. Like Get, it is built once and read-only afterward.
func SemanticModel() *model.Model {
	semOnce.Do(buildSemanticModel)
	return semModel
}

func buildSemanticModel() {
	b := model.NewBuilder()
	api := func(name string) model.ShapeID { return model.ShapeID{Namespace: "smithy.api", Name: name} }
	syn := func(name string) model.ShapeID { return model.ShapeID{Namespace: syntheticNamespace, Name: name} }
	mem := func(name string, target model.ShapeID) model.Member {
		return model.Member{Name: name, Target: target}
	}
	add := func(id model.ShapeID, typ string, members ...model.Member) {
		b.AddShape(&model.Shape{ID: id, Type: typ, Members: members})
	}

	add(api("String"), "string")
	add(api("Integer"), "integer")
	add(api("Boolean"), "boolean")
	add(api("Document"), "document")
	add(api("Unit"), "structure")

	add(syn("StringList"), "list", mem("member", api("String")))

	// metadata validators = [ { name, id, message, severity, namespaces,
	// selector, configuration } ]
	add(syn("Validator"), "structure",
		mem("name", api("String")),
		mem("id", api("String")),
		mem("message", api("String")),
		mem("severity", api("String")),
		mem("namespaces", syn("StringList")),
		mem("selector", api("String")),
		mem("configuration", api("Document")),
	)
	add(syn("ValidatorList"), "list", mem("member", syn("Validator")))

	// metadata suppressions = [ { id, namespace, reason } ]
	add(syn("Suppression"), "structure",
		mem("id", api("String")),
		mem("namespace", api("String")),
		mem("reason", api("String")),
	)
	add(syn("SuppressionList"), "list", mem("member", syn("Suppression")))

	add(syn("AuthorizationTest"), "structure",
		mem("name", api("String")),
		mem("operation", api("String")),
		mem("params", api("Document")),
	)
	add(syn("AuthorizationTestList"), "list", mem("member", syn("AuthorizationTest")))

	// Node-member value structures for the builtin shape types: shape
	// references are written as identifiers, so they walk as strings.
	add(syn("ShapeRefList"), "list", mem("member", api("String")))
	add(syn("IdentifierMap"), "map", mem("key", api("String")), mem("value", api("String")))

	semModel = b.Build()
}

// metadataValueShapes maps each documented metadata key to the semantic
// shape describing its value structure.
var metadataValueShapes = map[string]string{
	"validators":         "ValidatorList",
	"suppressions":       "SuppressionList",
	"authorizationTests": "AuthorizationTestList",
}

// MetadataValueShape resolves the semantic shape a metadata key's value
// is described by, if the key is a documented one.
func MetadataValueShape(key string) (model.ShapeID, bool) {
	name, ok := metadataValueShapes[key]
	if !ok {
		return model.ShapeID{}, false
	}
	return model.ShapeID{Namespace: syntheticNamespace, Name: name}, true
}

// NodeMemberShape resolves the semantic shape describing shapeType's
// structural member named member, for node-member values like a
// service's `version: "..."` or `rename: {...}`.
func NodeMemberShape(shapeType, member string) (model.ShapeID, bool) {
	m, ok := Get().MemberDoc(shapeType, member)
	if !ok {
		return model.ShapeID{}, false
	}
	switch {
	case m.Target == "string":
		return model.ShapeID{Namespace: "smithy.api", Name: "String"}, true
	case strings.HasPrefix(m.Target, "map<"):
		return model.ShapeID{Namespace: syntheticNamespace, Name: "IdentifierMap"}, true
	case strings.HasPrefix(m.Target, "["):
		return model.ShapeID{Namespace: syntheticNamespace, Name: "ShapeRefList"}, true
	default:
		// A single shape reference, written as an identifier.
		return model.ShapeID{Namespace: "smithy.api", Name: "String"}, true
	}
}
