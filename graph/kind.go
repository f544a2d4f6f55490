package graph

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/erddl"
)

// Kind is the closed set of node kinds an ER diagram can hold.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota
	StrongEntity
	WeakEntity
	Attribute
	KeyAttribute
	PartialKeyAttribute
	DerivedAttribute
	MultivaluedAttribute
	Relationship
	WeakRelationship
	AssociativeEntity
	GeneralizationDisjoint
	GeneralizationOverlap
	kindEnd
)

var kindNames = [...]string{
	KindInvalid:            "Invalid",
	StrongEntity:           "StrongEntity",
	WeakEntity:             "WeakEntity",
	Attribute:              "Attribute",
	KeyAttribute:           "KeyAttribute",
	PartialKeyAttribute:    "PartialKeyAttribute",
	DerivedAttribute:       "DerivedAttribute",
	MultivaluedAttribute:   "MultivaluedAttribute",
	Relationship:           "Relationship",
	WeakRelationship:       "WeakRelationship",
	AssociativeEntity:      "AssociativeEntity",
	GeneralizationDisjoint: "GeneralizationDisjoint",
	GeneralizationOverlap:  "GeneralizationOverlap",
}

// Kinds returns every valid node kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, 0, int(kindEnd)-1)
	for k := StrongEntity; k < kindEnd; k++ {
		ks = append(ks, k)
	}
	return ks
}

// String returns the tag of the kind.
func (k Kind) String() string {
	if k < kindEnd {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindEnd }

// IsEntity reports whether nodes of this kind become tables.
func (k Kind) IsEntity() bool {
	return k == StrongEntity || k == WeakEntity || k == AssociativeEntity
}

// IsAttribute reports whether k is one of the attribute kinds.
func (k Kind) IsAttribute() bool {
	switch k {
	case Attribute, KeyAttribute, PartialKeyAttribute, DerivedAttribute, MultivaluedAttribute:
		return true
	}
	return false
}

// IsColumn reports whether attributes of this kind are stored as columns of
// their owner's table.
func (k Kind) IsColumn() bool {
	return k == Attribute || k == KeyAttribute || k == PartialKeyAttribute
}

// IsGeneralization reports whether k is a generalization construct.
func (k Kind) IsGeneralization() bool {
	return k == GeneralizationDisjoint || k == GeneralizationOverlap
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, erddl.NewUnknownNodeKindError("", k.String())
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind parses a kind tag. Tags are matched loosely, so "StrongEntity",
// "strong_entity", "strong-entity" and "strong entity" are all accepted.
func ParseKind(s string) (Kind, error) {
	key := tagKey(s)
	for k := StrongEntity; k < kindEnd; k++ {
		if tagKey(kindNames[k]) == key {
			return k, nil
		}
	}
	return KindInvalid, erddl.NewUnknownNodeKindError("", s)
}

// ConnKind is the kind of a connection between two nodes.
type ConnKind uint8

// Connection kinds. Plain connects attributes to their owners and
// participants that carry no cardinality.
const (
	Plain ConnKind = iota
	SingleLineToOne
	SingleLineToMany
	DoubleLineToOne
	DoubleLineToMany
	SingleLineGeneralization
	DoubleLineGeneralization
	GeneralizationToSubtype
	connKindEnd
)

var connKindNames = [...]string{
	Plain:                    "Plain",
	SingleLineToOne:          "SingleLineToOne",
	SingleLineToMany:         "SingleLineToMany",
	DoubleLineToOne:          "DoubleLineToOne",
	DoubleLineToMany:         "DoubleLineToMany",
	SingleLineGeneralization: "SingleLineGeneralization",
	DoubleLineGeneralization: "DoubleLineGeneralization",
	GeneralizationToSubtype:  "GeneralizationToSubtype",
}

// String returns the tag of the connection kind.
func (k ConnKind) String() string {
	if k < connKindEnd {
		return connKindNames[k]
	}
	return fmt.Sprintf("ConnKind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared connection kinds.
func (k ConnKind) Valid() bool { return k < connKindEnd }

// IsCardinality reports whether k carries a 1 or N cardinality label.
func (k ConnKind) IsCardinality() bool {
	return k >= SingleLineToOne && k <= DoubleLineToMany
}

// ToMany reports whether k is labeled N.
func (k ConnKind) ToMany() bool {
	return k == SingleLineToMany || k == DoubleLineToMany
}

// Total reports whether k is drawn with a double line, i.e. the participation
// of the connected entity is total.
func (k ConnKind) Total() bool {
	return k == DoubleLineToOne || k == DoubleLineToMany || k == DoubleLineGeneralization
}

// IsSuperclass reports whether k connects a generalization to its superclass.
func (k ConnKind) IsSuperclass() bool {
	return k == SingleLineGeneralization || k == DoubleLineGeneralization
}

// MarshalText implements encoding.TextMarshaler.
func (k ConnKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("graph: invalid connection kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ConnKind) UnmarshalText(text []byte) error {
	v, err := ParseConnKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseConnKind parses a connection kind tag. An empty tag is Plain.
func ParseConnKind(s string) (ConnKind, error) {
	if strings.TrimSpace(s) == "" {
		return Plain, nil
	}
	key := tagKey(s)
	for k := Plain; k < connKindEnd; k++ {
		if tagKey(connKindNames[k]) == key {
			return k, nil
		}
	}
	return Plain, fmt.Errorf("graph: unknown connection kind %q", s)
}

var tagReplacer = strings.NewReplacer("-", "_", " ", "_", ".", "_")

// tagKey folds a tag to a separator-free lower-case form.
func tagKey(s string) string {
	u := inflect.Underscore(tagReplacer.Replace(strings.TrimSpace(s)))
	return strings.ReplaceAll(strings.ToLower(u), "_", "")
}
