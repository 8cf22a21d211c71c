package toml

import "testing"

func TestTable_SetAndKeys(t *testing.T) {
	tbl := NewTable()
	tbl.Set("b", NewInteger(1))
	tbl.Set("a", NewInteger(2))
	tbl.Set("b", NewInteger(3)) // overwrite keeps position

	keys := tbl.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("keys = %v", keys)
	}
	v, _ := tbl.Get("b")
	if n, _ := v.AsInteger(); n != 3 {
		t.Fatalf("b = %d", n)
	}
}

func TestTable_Lookup(t *testing.T) {
	root := mustParse(t, "[a.b]\nc = 1\n\"x.y\" = 2\n")
	if _, ok := root.Lookup("a.b.c"); !ok {
		t.Fatalf("a.b.c not found")
	}
	v, ok := root.Lookup(`a.b."x.y"`)
	if !ok {
		t.Fatalf(`a.b."x.y" not found`)
	}
	if n, _ := v.AsInteger(); n != 2 {
		t.Fatalf("x.y = %d", n)
	}
	if _, ok := root.Lookup("a.b.c.d"); ok {
		t.Fatalf("lookup through a scalar should fail")
	}
	if _, ok := root.Lookup("missing"); ok {
		t.Fatalf("missing key found")
	}
}

func TestValue_AccessorsRejectOtherKinds(t *testing.T) {
	v := NewInteger(1)
	if _, ok := v.AsString(); ok {
		t.Fatalf("AsString on integer")
	}
	if _, ok := v.AsBool(); ok {
		t.Fatalf("AsBool on integer")
	}
	if _, ok := v.AsTable(); ok {
		t.Fatalf("AsTable on integer")
	}
	if _, ok := v.AsDatetime(); ok {
		t.Fatalf("AsDatetime on integer")
	}
}

func TestValue_Equal(t *testing.T) {
	a := NewArray(NewInteger(1), NewString("x"))
	b := NewArray(NewInteger(1), NewString("x"))
	if !a.Equal(b) {
		t.Fatalf("equal arrays differ")
	}
	c := NewArray(NewString("x"), NewInteger(1))
	if a.Equal(c) {
		t.Fatalf("order must matter")
	}

	t1 := NewTable()
	t1.Set("k", NewBool(true))
	t2 := NewTable()
	t2.Set("k", NewBool(true))
	if !NewTableValue(t1).Equal(NewTableValue(t2)) {
		t.Fatalf("equal tables differ")
	}
	t2.Set("extra", NewInteger(0))
	if NewTableValue(t1).Equal(NewTableValue(t2)) {
		t.Fatalf("tables with different keys compare equal")
	}
}

func TestTable_EqualKeyOrder(t *testing.T) {
	a := NewTable()
	a.Set("x", NewInteger(1))
	a.Set("y", NewInteger(2))
	b := NewTable()
	b.Set("y", NewInteger(2))
	b.Set("x", NewInteger(1))
	if a.Equal(b) {
		t.Fatalf("tables with different key order compare equal")
	}
}

func TestKind_String(t *testing.T) {
	if KindString.String() != "string" || KindTable.String() != "table" {
		t.Fatalf("unexpected Kind names")
	}
	if KindDatetime.String() != "datetime" {
		t.Fatalf("KindDatetime = %q", KindDatetime.String())
	}
}

func TestSplitPath(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a.b.c", []string{"a", "b", "c"}},
		{`a."b.c".d`, []string{"a", "b.c", "d"}},
		{`'x.y'`, []string{"x.y"}},
		{"a . b", []string{"a", "b"}},
	}
	for _, c := range cases {
		got := splitPath(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q: got %v", c.in, got)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q: got %v, want %v", c.in, got, c.want)
			}
		}
	}
}
