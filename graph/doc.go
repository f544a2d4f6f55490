// Package graph holds the entity-relationship diagram model consumed by the
// compiler.
//
// A Diagram is a set of typed nodes joined by typed connections:
//
//	StrongEntity ── Plain ── KeyAttribute
//	StrongEntity ── SingleLineToMany ── Relationship ── SingleLineToOne ── StrongEntity
//	StrongEntity ── DoubleLineGeneralization ── GeneralizationDisjoint ── GeneralizationToSubtype ── StrongEntity
//
// Connection direction carries no meaning. Lookups go through Diagram.Edges
// and Diagram.Peers, which list the connections touching a node in diagram
// order.
//
// # Identifiers
//
// TableName, ColumnName and ForeignColumn derive SQL identifiers from labels.
// Entity "Bank Account" becomes table BANK_ACCOUNT; a key "id" carried into
// another table becomes column "id-bank_account".
package graph
