package model

import "strings"

// ShapeID is a parsed Smithy shape id: namespace#name or
// namespace#name$member. It is a value type, not a pointer, so callers
// can compare and map-key on it directly.
type ShapeID struct {
	Namespace string
	Name      string
	Member    string // empty when the id has no member component
}

// ParseShapeID splits a raw "namespace#Name$member" token. ok is false if
// the token has no '#', matching ShapeSearch's "absolute id" test.
func ParseShapeID(raw string) (ShapeID, bool) {
	hash := strings.IndexByte(raw, '#')
	if hash < 0 {
		return ShapeID{}, false
	}
	ns, rest := raw[:hash], raw[hash+1:]
	if dollar := strings.IndexByte(rest, '$'); dollar >= 0 {
		return ShapeID{Namespace: ns, Name: rest[:dollar], Member: rest[dollar+1:]}, true
	}
	return ShapeID{Namespace: ns, Name: rest}, true
}

// WithMember returns a copy of id targeting the given member name.
func (id ShapeID) WithMember(member string) ShapeID {
	id.Member = member
	return id
}

// RootID returns id with any member component stripped.
func (id ShapeID) RootID() ShapeID {
	id.Member = ""
	return id
}

// HasMember reports whether id targets a member rather than a shape.
func (id ShapeID) HasMember() bool { return id.Member != "" }

// String renders the canonical "namespace#Name" or "namespace#Name$member" form.
func (id ShapeID) String() string {
	var b strings.Builder
	b.WriteString(id.Namespace)
	b.WriteByte('#')
	b.WriteString(id.Name)
	if id.Member != "" {
		b.WriteByte('$')
		b.WriteString(id.Member)
	}
	return b.String()
}
