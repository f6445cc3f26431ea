// Package details holds the free-form attribute tree attached to a product
// (screen size, chip, colors, ...). A Node is a tagged variant over the JSON
// value kinds; it is parsed at every write boundary and stored as compact
// JSON text.
package details

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var ErrMalformed = errors.New("details: malformed structured data")

type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Node is one value of the tree. The zero Node is null.
type Node struct {
	kind    Kind
	b       bool
	num     json.Number
	str     string
	items   []Node
	members []Member
}

// Member is a key/value pair of an object node, kept in insertion order.
type Member struct {
	Key   string
	Value Node
}

func NullNode() Node                { return Node{} }
func BoolNode(b bool) Node          { return Node{kind: Bool, b: b} }
func StringNode(s string) Node      { return Node{kind: String, str: s} }
func NumberNode(n json.Number) Node { return Node{kind: Number, num: n} }
func ArrayNode(items ...Node) Node  { return Node{kind: Array, items: append([]Node{}, items...)} }

func ObjectNode(members ...Member) Node {
	n := Node{kind: Object, members: make([]Member, 0, len(members))}
	for _, m := range members {
		n.set(m.Key, m.Value)
	}
	return n
}

// EmptyObject is what an absent or blank details field means.
func EmptyObject() Node { return Node{kind: Object, members: []Member{}} }

func (n Node) Kind() Kind          { return n.kind }
func (n Node) Bool() bool          { return n.b }
func (n Node) Number() json.Number { return n.num }
func (n Node) Str() string         { return n.str }
func (n Node) Items() []Node       { return n.items }
func (n Node) Members() []Member   { return n.members }
func (n Node) IsObject() bool      { return n.kind == Object }

// Len is the number of items or members; zero for scalars.
func (n Node) Len() int {
	switch n.kind {
	case Array:
		return len(n.items)
	case Object:
		return len(n.members)
	}
	return 0
}

func (n Node) Lookup(key string) (Node, bool) {
	for _, m := range n.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Node{}, false
}

func (n *Node) set(key string, v Node) {
	for i := range n.members {
		if n.members[i].Key == key {
			n.members[i].Value = v
			return
		}
	}
	n.members = append(n.members, Member{Key: key, Value: v})
}

// Parse reads exactly one JSON value from text. Blank text yields an empty
// object; anything after the value is rejected.
func Parse(text string) (Node, error) {
	if strings.TrimSpace(text) == "" {
		return EmptyObject(), nil
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	n, err := decode(dec)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Node{}, fmt.Errorf("%w: unexpected data after value", ErrMalformed)
	}
	return n, nil
}

func decode(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Node{}, io.ErrUnexpectedEOF
		}
		return Node{}, err
	}
	switch t := tok.(type) {
	case nil:
		return NullNode(), nil
	case bool:
		return BoolNode(t), nil
	case json.Number:
		return NumberNode(t), nil
	case string:
		return StringNode(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := Node{kind: Array, items: []Node{}}
			for dec.More() {
				item, err := decode(dec)
				if err != nil {
					return Node{}, err
				}
				arr.items = append(arr.items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return arr, nil
		case '{':
			obj := EmptyObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Node{}, fmt.Errorf("object key is %T", keyTok)
				}
				v, err := decode(dec)
				if err != nil {
					return Node{}, err
				}
				obj.set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return obj, nil
		}
	}
	return Node{}, fmt.Errorf("unexpected token %v", tok)
}

func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func (n Node) encode(buf *bytes.Buffer) error {
	switch n.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if n.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if n.num == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(n.num.String())
		}
	case String:
		b, err := json.Marshal(n.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("details: unknown kind %v", n.kind)
	}
	return nil
}

// Text is the compact serialized form written to the store.
func (n Node) Text() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Indent renders the tree for an edit form.
func (n Node) Indent() string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(n.Text()), "", "  "); err != nil {
		return n.Text()
	}
	return out.String()
}

// Display renders a node as a single human-readable line: scalars as their
// value, arrays joined by commas, objects as compact JSON.
func (n Node) Display() string {
	switch n.kind {
	case Null:
		return ""
	case Bool:
		if n.b {
			return "yes"
		}
		return "no"
	case Number:
		return n.num.String()
	case String:
		return n.str
	case Array:
		parts := make([]string, 0, len(n.items))
		for _, item := range n.items {
			parts = append(parts, item.Display())
		}
		return strings.Join(parts, ", ")
	}
	return n.Text()
}

// Equal compares two trees structurally. Object member order is ignored.
func Equal(a, b Node) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.num == b.num
	case String:
		return a.str == b.str
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.members) != len(b.members) {
			return false
		}
		am, bm := sortedMembers(a), sortedMembers(b)
		for i := range am {
			if am[i].Key != bm[i].Key || !Equal(am[i].Value, bm[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func sortedMembers(n Node) []Member {
	out := append([]Member{}, n.members...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Value implements driver.Valuer.
func (n Node) Value() (driver.Value, error) {
	b, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. SQL NULL reads back as an empty object.
func (n *Node) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		*n = EmptyObject()
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("details: cannot scan %T", src)
	}
	parsed, err := Parse(text)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
