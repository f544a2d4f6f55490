// Package load reads and writes diagram snapshots, the documents an ER
// diagram is stored in between the drawing tool and the compiler.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/erddl"
	"github.com/syssam/erddl/graph"
)

// Snapshot is the serialized form of a diagram.
type Snapshot struct {
	Nodes       []*NodeSpec `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	Connections []*ConnSpec `json:"connections,omitempty" yaml:"connections,omitempty" msgpack:"connections,omitempty"`
}

// NodeSpec is a serialized node. Kind holds a kind tag, such as
// "StrongEntity" or "key_attribute".
type NodeSpec struct {
	ID       string `json:"id" yaml:"id" msgpack:"id"`
	Label    string `json:"label" yaml:"label" msgpack:"label"`
	Kind     string `json:"kind" yaml:"kind" msgpack:"kind"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty" msgpack:"nullable,omitempty"`
	SQL      string `json:"sql,omitempty" yaml:"sql,omitempty" msgpack:"sql,omitempty"`
}

// ConnSpec is a serialized connection. An empty Kind is a plain connection.
type ConnSpec struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	A    string `json:"a" yaml:"a" msgpack:"a"`
	B    string `json:"b" yaml:"b" msgpack:"b"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" msgpack:"kind,omitempty"`
}

// Format is a snapshot encoding.
type Format string

// Snapshot formats.
const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// FormatOf returns the format of a snapshot file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".msgpack", ".mp":
		return MsgPack, nil
	default:
		return "", fmt.Errorf("load: unsupported snapshot extension %q", filepath.Ext(path))
	}
}

// Diagram converts the snapshot into a diagram. Kind tags are parsed here, so
// a node of unknown kind is rejected with *erddl.UnknownNodeKindError before
// compilation starts. Connections without an id are numbered.
func (s *Snapshot) Diagram() (*graph.Diagram, error) {
	nodes := make([]*graph.Node, 0, len(s.Nodes))
	seen := make(map[string]bool, len(s.Nodes))
	for i, ns := range s.Nodes {
		if ns.ID == "" {
			return nil, fmt.Errorf("load: node %d (%q) has no id", i, ns.Label)
		}
		if seen[ns.ID] {
			return nil, fmt.Errorf("load: duplicate node id %q", ns.ID)
		}
		seen[ns.ID] = true
		kind, err := graph.ParseKind(ns.Kind)
		if err != nil {
			return nil, erddl.NewUnknownNodeKindError(ns.ID, ns.Kind)
		}
		nodes = append(nodes, &graph.Node{
			ID:       ns.ID,
			Label:    ns.Label,
			Kind:     kind,
			Type:     ns.Type,
			Nullable: ns.Nullable,
			SQL:      ns.SQL,
		})
	}
	conns := make([]*graph.Connection, 0, len(s.Connections))
	for i, cs := range s.Connections {
		kind, err := graph.ParseConnKind(cs.Kind)
		if err != nil {
			return nil, fmt.Errorf("load: connection %d: %w", i, err)
		}
		id := cs.ID
		if id == "" {
			id = fmt.Sprintf("c%d", i+1)
		}
		conns = append(conns, &graph.Connection{ID: id, A: cs.A, B: cs.B, Kind: kind})
	}
	return graph.New(nodes, conns), nil
}

// FromDiagram returns the snapshot of a diagram.
func FromDiagram(d *graph.Diagram) *Snapshot {
	s := &Snapshot{
		Nodes:       make([]*NodeSpec, 0, len(d.Nodes)),
		Connections: make([]*ConnSpec, 0, len(d.Connections)),
	}
	for _, n := range d.Nodes {
		s.Nodes = append(s.Nodes, &NodeSpec{
			ID:       n.ID,
			Label:    n.Label,
			Kind:     n.Kind.String(),
			Type:     n.Type,
			Nullable: n.Nullable,
			SQL:      n.SQL,
		})
	}
	for _, c := range d.Connections {
		cs := &ConnSpec{ID: c.ID, A: c.A, B: c.B}
		if c.Kind != graph.Plain {
			cs.Kind = c.Kind.String()
		}
		s.Connections = append(s.Connections, cs)
	}
	return s
}

// Marshal encodes the snapshot in the given format.
func Marshal(s *Snapshot, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(s, "", "  ")
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case MsgPack:
		return msgpack.Marshal(s)
	default:
		return nil, fmt.Errorf("load: unknown format %q", f)
	}
}

// Unmarshal decodes a snapshot. JSON and YAML documents with fields outside
// the snapshot schema are rejected.
func Unmarshal(data []byte, f Format) (*Snapshot, error) {
	s := &Snapshot{}
	switch f {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("load: decode json: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("load: decode yaml: %w", err)
		}
	case MsgPack:
		if err := msgpack.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("load: decode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("load: unknown format %q", f)
	}
	return s, nil
}

// Load reads the snapshot file at path, in the format its extension names,
// and returns its diagram. Read failures are reported as *erddl.IOError.
func Load(path string) (*graph.Diagram, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, erddl.NewIOError("read", path, err)
	}
	s, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d, err := s.Diagram()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save writes the snapshot of d to path, in the format its extension names.
func Save(path string, d *graph.Diagram) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(FromDiagram(d), f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return erddl.NewIOError("write", path, err)
	}
	return nil
}
