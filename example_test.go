package toml

import "fmt"

func ExampleParse() {
	root, err := Parse([]byte(`
title = "config"

[owner]
name = "Tom"
`))
	if err != nil {
		fmt.Println(err)
		return
	}
	v, _ := root.Lookup("owner.name")
	name, _ := v.AsString()
	fmt.Println(name)
	// Output: Tom
}

func ExampleEncode() {
	root := NewTable()
	root.Set("enabled", NewBool(true))

	server := NewTable()
	server.Set("host", NewString("localhost"))
	server.Set("port", NewInteger(8080))
	root.Set("server", NewTableValue(server))

	out, err := Encode(root)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(out)
	// Output:
	// enabled = true
	// [server]
	// host = "localhost"
	// port = 8080
}

func ExampleParseWith() {
	// TOML 1.1.0 accepts \x escapes and times without seconds.
	root, err := ParseWith([]byte("at = 07:32\n"), ParseOptions{Version: V1_1_0})
	if err != nil {
		fmt.Println(err)
		return
	}
	v, _ := root.Get("at")
	dt, _ := v.AsDatetime()
	fmt.Println(dt)
	// Output: 07:32
}

func ExampleParseError() {
	_, err := Parse([]byte("port =\n"))
	fmt.Print(err)
	// Output:
	// parse error at line 1, column 7: expected value
	//   1 | port =
	//     |       ^
}
