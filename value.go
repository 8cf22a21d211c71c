package toml

// Kind identifies the variant held by a Value. The set is closed:
// every consumer of a Value switches exhaustively over these.
type Kind uint8

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindDatetime // offset date-time
	KindLocalDatetime
	KindLocalDate
	KindLocalTime
	KindArray
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDatetime:
		return "datetime"
	case KindLocalDatetime:
		return "local datetime"
	case KindLocalDate:
		return "local date"
	case KindLocalTime:
		return "local time"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	}
	return "unknown"
}

// Value is a tagged union over every TOML value variant. Values are
// immutable once a parse returns; constructors build new ones for
// encoding.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	dt   Datetime
	arr  []*Value
	tbl  *Table

	// rep holds a substituted float representation produced by a
	// FloatFunc. Nil when the standard decoder was used.
	rep any

	// static marks arrays written as [ ... ] literals, which cannot be
	// extended by [[header]] syntax. Parser-internal.
	static bool
}

// Kind reports which variant the value holds.
func (v *Value) Kind() Kind { return v.kind }

// Constructors.

// NewString builds a string value.
func NewString(s string) *Value { return &Value{kind: KindString, s: s} }

// NewInteger builds a 64-bit integer value.
func NewInteger(i int64) *Value { return &Value{kind: KindInteger, i: i} }

// NewFloat builds a 64-bit float value.
func NewFloat(f float64) *Value { return &Value{kind: KindFloat, f: f} }

// NewBool builds a boolean value.
func NewBool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// NewDatetime builds a datetime value; the variant is derived from
// which parts of dt are present.
func NewDatetime(dt Datetime) *Value { return &Value{kind: dt.kind(), dt: dt} }

// NewArray builds an array value from the given elements.
func NewArray(elems ...*Value) *Value {
	return &Value{kind: KindArray, arr: elems}
}

// NewTableValue wraps a table as a value.
func NewTableValue(t *Table) *Value { return &Value{kind: KindTable, tbl: t} }

// Accessors. Each returns false when the value holds another variant.

// AsString returns the string payload.
func (v *Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsInteger returns the integer payload.
func (v *Value) AsInteger() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float payload as a float64. It reports false for
// values decoded by a substituted FloatFunc into a non-float64
// representation; use FloatRep for those.
func (v *Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat || v.rep != nil {
		return 0, false
	}
	return v.f, true
}

// FloatRep returns the representation produced by the FloatFunc in
// effect at parse time: a float64 for the standard decoder, otherwise
// whatever the hook returned.
func (v *Value) FloatRep() (any, bool) {
	if v.kind != KindFloat {
		return nil, false
	}
	if v.rep != nil {
		return v.rep, true
	}
	return v.f, true
}

// AsBool returns the boolean payload.
func (v *Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsDatetime returns the datetime payload for any of the four datetime
// variants.
func (v *Value) AsDatetime() (Datetime, bool) {
	switch v.kind {
	case KindDatetime, KindLocalDatetime, KindLocalDate, KindLocalTime:
		return v.dt, true
	default:
		return Datetime{}, false
	}
}

// AsArray returns the element slice. The slice is shared, not copied;
// treat it as read-only.
func (v *Value) AsArray() ([]*Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// AsTable returns the table payload.
func (v *Value) AsTable() (*Table, bool) {
	if v.kind != KindTable {
		return nil, false
	}
	return v.tbl, true
}

// Equal reports semantic equality: same variant, same payload, and for
// arrays and tables the same elements/keys in the same order.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInteger:
		return v.i == o.i
	case KindFloat:
		if v.rep != nil || o.rep != nil {
			return v.rep == o.rep
		}
		// NaN compares equal to itself here so round-trips hold.
		return v.f == o.f || (v.f != v.f && o.f != o.f)
	case KindBool:
		return v.b == o.b
	case KindDatetime, KindLocalDatetime, KindLocalDate, KindLocalTime:
		return v.dt == o.dt
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindTable:
		return v.tbl.Equal(o.tbl)
	}
	return false
}

// Table is an ordered mapping from key to value. Keys are unique and
// iteration follows insertion order.
type Table struct {
	keys  []string
	items map[string]*Value

	// Construction-time state, consulted only while the parser owns
	// the graph.
	explicit bool // defined by a [header]
	dotted   bool // created or extended by a dotted key
	frozen   bool // closed inline table
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{items: make(map[string]*Value)}
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.keys) }

// Keys returns the keys in insertion order. The returned slice is a
// copy.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (*Value, bool) {
	v, ok := t.items[key]
	return v, ok
}

// Set stores v under key, appending the key if absent.
func (t *Table) Set(key string, v *Value) {
	if _, ok := t.items[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.items[key] = v
}

// Lookup resolves a dotted path like `server.host` or `a."b.c"` from
// this table. It returns false if any segment is missing or traverses
// a non-table.
func (t *Table) Lookup(path string) (*Value, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, false
	}
	cur := t
	for i, seg := range segs {
		v, ok := cur.items[seg]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		cur, ok = v.AsTable()
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

// Equal reports semantic equality: same keys in the same order, with
// equal values.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.keys) != len(o.keys) {
		return false
	}
	for i, k := range t.keys {
		if o.keys[i] != k {
			return false
		}
		if !t.items[k].Equal(o.items[k]) {
			return false
		}
	}
	return true
}
