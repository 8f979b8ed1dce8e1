package plan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedOp = errors.New("unsupported plan op")
	ErrInvalidPlan   = errors.New("invalid plan")
	ErrMissingArg    = func(op, arg string) error {
		return fmt.Errorf("%w: op %q requires %q", ErrInvalidPlan, op, arg)
	}
)

// Node is one step of a declarative selection. Of is the receiver the step is
// applied to; a nil Of means the top level of the table. Which of the other
// fields are read depends on Op.
type Node struct {
	Op     string     `yaml:"op" msgpack:"op"`
	Of     *Node      `yaml:"of,omitempty" msgpack:"of,omitempty"`
	Name   string     `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Path   string     `yaml:"path,omitempty" msgpack:"path,omitempty"`
	Index  *int       `yaml:"index,omitempty" msgpack:"index,omitempty"`
	Where  *Predicate `yaml:"where,omitempty" msgpack:"where,omitempty"`
	Select []Selector `yaml:"select,omitempty" msgpack:"select,omitempty"`
	First  *int       `yaml:"first,omitempty" msgpack:"first,omitempty"`
	Last   *int       `yaml:"last,omitempty" msgpack:"last,omitempty"`
	N      *int       `yaml:"n,omitempty" msgpack:"n,omitempty"`
	Kinds  []string   `yaml:"kinds,omitempty" msgpack:"kinds,omitempty"`
	Type   string     `yaml:"type,omitempty" msgpack:"type,omitempty"`
	Match  string     `yaml:"match,omitempty" msgpack:"match,omitempty"` // exact or assignable
	Pivot  string     `yaml:"pivot,omitempty" msgpack:"pivot,omitempty"`
	Args   []*Node    `yaml:"args,omitempty" msgpack:"args,omitempty"`
}

// Selector picks columns for col and cols. Exactly one field is set.
type Selector struct {
	Name  string     `yaml:"name,omitempty" msgpack:"name,omitempty"`
	Path  string     `yaml:"path,omitempty" msgpack:"path,omitempty"`
	Index *int       `yaml:"index,omitempty" msgpack:"index,omitempty"`
	Where *Predicate `yaml:"where,omitempty" msgpack:"where,omitempty"`
}

// Predicate is a name, path or kind test: nameEquals, nameContains,
// nameStartsWith, nameEndsWith, nameMatches (regexp), pathIs ("a/b"), kind,
// not, allOf.
type Predicate struct {
	Op    string       `yaml:"op" msgpack:"op"`
	Value string       `yaml:"value,omitempty" msgpack:"value,omitempty"`
	Kinds []string     `yaml:"kinds,omitempty" msgpack:"kinds,omitempty"`
	Args  []*Predicate `yaml:"args,omitempty" msgpack:"args,omitempty"`
}

// Decode reads one yaml plan.
func Decode(r io.Reader) (*Node, error) {
	var n Node
	if err := yaml.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &n, nil
}

func DecodeFile(filePath string) (*Node, error) {
	suffix := strings.Split(filePath, ".")[len(strings.Split(filePath, "."))-1]
	if suffix != "yaml" && suffix != "yml" {
		return nil, errors.New("file must be a .yaml or .yml file")
	}
	r, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Decode(r)
}

func Encode(w io.Writer, n *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}

// MarshalMsgpack and UnmarshalMsgpack are the stored form of a plan.
func MarshalMsgpack(n *Node) ([]byte, error) {
	return msgpack.Marshal(n)
}

func UnmarshalMsgpack(data []byte) (*Node, error) {
	var n Node
	if err := msgpack.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &n, nil
}
