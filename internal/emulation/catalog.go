package emulation

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Value is a legacy call argument or result.
type Value = any

// Kind classifies how an operation is served.
type Kind int

const (
	// KindBridge operations read or drive the media element.
	KindBridge Kind = iota
	// KindState operations read or write the emulated device state.
	KindState
	// KindConst operations return a fixed value.
	KindConst
	// KindNoop operations accept their arguments and do nothing server-side.
	KindNoop
)

func (k Kind) String() string {
	switch k {
	case KindBridge:
		return "bridge"
	case KindState:
		return "state"
	case KindConst:
		return "const"
	case KindNoop:
		return "noop"
	default:
		return "unknown"
	}
}

// OpFunc serves an operation on a device. The device lock is held.
type OpFunc func(d *Device, args Args) (Value, error)

// Op is one legacy method of a family's API surface.
type Op struct {
	// Object is the dotted global the method hangs off, e.g. "gSTB" or "webapis.avplay".
	Object string
	Name   string
	Params []string
	Kind   Kind
	// Value is returned by KindConst operations without an Fn.
	Value Value
	// Body is the JavaScript function body. Const and noop operations derive
	// one when it is empty.
	Body string
	Fn   OpFunc
	// Mutates marks operations whose call is mirrored to the server device.
	Mutates bool
}

// Qualified returns "Object.Name".
func (o Op) Qualified() string {
	return o.Object + "." + o.Name
}

// JSBody returns the JavaScript function body for the operation.
func (o Op) JSBody() string {
	if o.Body != "" {
		return o.Body
	}
	if o.Kind == KindConst {
		b, err := json.Marshal(o.Value)
		if err != nil {
			return "return null;"
		}
		return "return " + string(b) + ";"
	}
	return ""
}

// Catalog is the closed set of operations for one family.
type Catalog struct {
	family        string
	defaultObject string
	ops           []Op
	byName        map[string]int
}

// NewCatalog indexes ops by qualified name. Later duplicates replace earlier ones.
func NewCatalog(family, defaultObject string, ops []Op) *Catalog {
	c := &Catalog{
		family:        family,
		defaultObject: defaultObject,
		byName:        make(map[string]int, len(ops)),
	}
	for _, op := range ops {
		if i, ok := c.byName[op.Qualified()]; ok {
			c.ops[i] = op
			continue
		}
		c.byName[op.Qualified()] = len(c.ops)
		c.ops = append(c.ops, op)
	}
	return c
}

// Family returns the class id the catalog belongs to.
func (c *Catalog) Family() string { return c.family }

// Ops returns the operations in declaration order.
func (c *Catalog) Ops() []Op { return slices.Clone(c.ops) }

// Len returns the number of operations.
func (c *Catalog) Len() int { return len(c.ops) }

// Lookup finds an operation by qualified name, or by bare name on the
// family's main object.
func (c *Catalog) Lookup(name string) (Op, bool) {
	if i, ok := c.byName[name]; ok {
		return c.ops[i], true
	}
	if i, ok := c.byName[c.defaultObject+"."+name]; ok {
		return c.ops[i], true
	}
	return Op{}, false
}

// Objects returns the distinct objects in declaration order.
func (c *Catalog) Objects() []string {
	var objects []string
	for _, op := range c.ops {
		if !slices.Contains(objects, op.Object) {
			objects = append(objects, op.Object)
		}
	}
	return objects
}

// ByObject returns the operations hanging off object.
func (c *Catalog) ByObject(object string) []Op {
	var ops []Op
	for _, op := range c.ops {
		if op.Object == object {
			ops = append(ops, op)
		}
	}
	return ops
}

// Args wraps call arguments decoded from JSON. Accessors are lenient about
// types, the way the legacy runtime coerces them.
type Args []Value

func (a Args) at(i int) Value {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// String returns argument i as a string. Missing arguments are "".
func (a Args) String(i int) string {
	switch v := a.at(i).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Float returns argument i as a number. Non-numeric values are 0.
func (a Args) Float(i int) float64 {
	switch v := a.at(i).(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int returns argument i truncated to an int.
func (a Args) Int(i int) int {
	return int(a.Float(i))
}

// Bool returns argument i as a legacy flag: true, non-zero numbers, "1" and "true".
func (a Args) Bool(i int) bool {
	switch v := a.at(i).(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case string:
		return v == "1" || v == "true"
	default:
		return false
	}
}
