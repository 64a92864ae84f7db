package cmdutil

import (
	"flag"
	"testing"
)

func TestStringSliceFlag(t *testing.T) {
	test := StringSlice("test", "test")
	flag.CommandLine.Parse([]string{
		"-test", "foo",
		"-test", "bar",
	})
	t.Log(test)
	if test.Len() != 2 {
		t.Fatal(test.Slice())
	}
	if s := test.Slice(); s[0] != "foo" || s[1] != "bar" {
		t.Fatal(s)
	}
}

func TestSerializationFormatFlag(t *testing.T) {
	f := &SerializationFormat{}
	if err := f.Set("json"); err != nil {
		t.Fatal(err)
	}
	if f.String() != SerializationFormatJSON {
		t.Fatal(f)
	}
	if err := f.Set("xml"); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}
