// Package erddl compiles entity-relationship diagrams into relational DDL.
//
// The root package holds the error values shared by every stage of the
// compiler. The diagram model lives in graph, the compiler in compiler/gen and
// the relational statement model in dialect/sql/schema.
package erddl

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a compilation.
var (
	// ErrUnknownNodeKind is returned when a diagram node carries a kind
	// outside the closed set of node kinds.
	ErrUnknownNodeKind = errors.New("erddl: unknown node kind")

	// ErrMissingOwnerKey is reported when an entity construct needs a key
	// that cannot be resolved from the diagram.
	ErrMissingOwnerKey = errors.New("erddl: missing owner key")

	// ErrDanglingConnection is returned when a connection refers to a node
	// that is not part of the diagram.
	ErrDanglingConnection = errors.New("erddl: dangling connection")

	// ErrIO is returned when the compiled script cannot be written.
	ErrIO = errors.New("erddl: i/o failure")

	// ErrUnsupportedConstruct is reported for constructs the compiler
	// recognizes but does not translate, such as ternary relationships.
	ErrUnsupportedConstruct = errors.New("erddl: unsupported construct")
)

// UnknownNodeKindError reports a node whose kind is not recognized.
type UnknownNodeKindError struct {
	Node string
	Kind string
}

// Error returns the error string.
func (e *UnknownNodeKindError) Error() string {
	return fmt.Sprintf("erddl: node %q has unknown kind %q", e.Node, e.Kind)
}

// Is reports whether the target error matches ErrUnknownNodeKind.
func (e *UnknownNodeKindError) Is(err error) bool {
	return err == ErrUnknownNodeKind
}

// NewUnknownNodeKindError returns a new UnknownNodeKindError.
func NewUnknownNodeKindError(node, kind string) *UnknownNodeKindError {
	return &UnknownNodeKindError{Node: node, Kind: kind}
}

// IsUnknownNodeKind returns true if the error is an UnknownNodeKindError.
func IsUnknownNodeKind(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownNodeKindError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownNodeKind)
}

// MissingKeyError reports an entity whose key could not be resolved while
// running a phase. The affected construct is skipped.
type MissingKeyError struct {
	Phase  string
	Entity string
	// Role names the key that was looked up ("key", "partial key", "owner key").
	Role string
}

// Error returns the error string.
func (e *MissingKeyError) Error() string {
	var b strings.Builder
	b.WriteString("erddl: missing ")
	if e.Role != "" {
		b.WriteString(e.Role)
	} else {
		b.WriteString("key")
	}
	b.WriteString(" for ")
	b.WriteString(e.Entity)
	if e.Phase != "" {
		b.WriteString(" during ")
		b.WriteString(e.Phase)
	}
	return b.String()
}

// Is reports whether the target error matches ErrMissingOwnerKey.
func (e *MissingKeyError) Is(err error) bool {
	return err == ErrMissingOwnerKey
}

// NewMissingKeyError returns a new MissingKeyError.
func NewMissingKeyError(phase, entity, role string) *MissingKeyError {
	return &MissingKeyError{Phase: phase, Entity: entity, Role: role}
}

// IsMissingKey returns true if the error is a MissingKeyError.
func IsMissingKey(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingKeyError
	return errors.As(err, &e) || errors.Is(err, ErrMissingOwnerKey)
}

// DanglingConnectionError reports a connection whose endpoint is absent.
type DanglingConnectionError struct {
	Connection string
	Node       string
}

// Error returns the error string.
func (e *DanglingConnectionError) Error() string {
	return fmt.Sprintf("erddl: connection %q references missing node %q", e.Connection, e.Node)
}

// Is reports whether the target error matches ErrDanglingConnection.
func (e *DanglingConnectionError) Is(err error) bool {
	return err == ErrDanglingConnection
}

// NewDanglingConnectionError returns a new DanglingConnectionError.
func NewDanglingConnectionError(conn, node string) *DanglingConnectionError {
	return &DanglingConnectionError{Connection: conn, Node: node}
}

// IsDanglingConnection returns true if the error is a DanglingConnectionError.
func IsDanglingConnection(err error) bool {
	if err == nil {
		return false
	}
	var e *DanglingConnectionError
	return errors.As(err, &e) || errors.Is(err, ErrDanglingConnection)
}

// IOError reports a failure to read or write an artifact.
type IOError struct {
	Path  string
	Op    string
	Cause error
}

// Error returns the error string.
func (e *IOError) Error() string {
	var b strings.Builder
	b.WriteString("erddl: ")
	if e.Op != "" {
		b.WriteString(e.Op)
	} else {
		b.WriteString("i/o")
	}
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches ErrIO.
func (e *IOError) Is(err error) bool {
	return err == ErrIO
}

// NewIOError returns a new IOError.
func NewIOError(op, path string, cause error) *IOError {
	return &IOError{Op: op, Path: path, Cause: cause}
}

// IsIO returns true if the error is an IOError.
func IsIO(err error) bool {
	if err == nil {
		return false
	}
	var e *IOError
	return errors.As(err, &e) || errors.Is(err, ErrIO)
}

// UnsupportedError reports a construct that was recognized but skipped.
type UnsupportedError struct {
	Phase     string
	Construct string
	Reason    string
}

// Error returns the error string.
func (e *UnsupportedError) Error() string {
	msg := fmt.Sprintf("erddl: %s not translated", e.Construct)
	if e.Phase != "" {
		msg += " during " + e.Phase
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether the target error matches ErrUnsupportedConstruct.
func (e *UnsupportedError) Is(err error) bool {
	return err == ErrUnsupportedConstruct
}

// NewUnsupportedError returns a new UnsupportedError.
func NewUnsupportedError(phase, construct, reason string) *UnsupportedError {
	return &UnsupportedError{Phase: phase, Construct: construct, Reason: reason}
}

// IsUnsupported returns true if the error is an UnsupportedError.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedConstruct)
}

// PhaseError wraps a fatal error with the compilation phase it occurred in.
type PhaseError struct {
	Phase string
	Cause error
}

// Error returns the error string.
func (e *PhaseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("erddl: phase %s failed", e.Phase)
	}
	return fmt.Sprintf("erddl: phase %s: %v", e.Phase, e.Cause)
}

// Unwrap returns the underlying error.
func (e *PhaseError) Unwrap() error {
	return e.Cause
}

// NewPhaseError returns a new PhaseError. A nil cause yields nil.
func NewPhaseError(phase string, cause error) error {
	if cause == nil {
		return nil
	}
	return &PhaseError{Phase: phase, Cause: cause}
}

// PhaseOf returns the phase recorded on err, if any.
func PhaseOf(err error) (string, bool) {
	var e *PhaseError
	if errors.As(err, &e) {
		return e.Phase, true
	}
	return "", false
}
