package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

func TestStringHelperKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		attr slog.Attr
	}{
		{"Path", KeyPath, "posts/hello.md", Path("posts/hello.md")},
		{"Route", KeyRoute, "/posts", Route("/posts")},
		{"Slug", KeySlug, "hello", Slug("hello")},
		{"Tag", KeyTag, "go", Tag("go")},
		{"Field", KeyField, "date", Field("date")},
		{"Stage", KeyStage, "export", Stage("export")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"Addr", KeyAddr, ":3000", Addr(":3000")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, tc := range cases {
		if tc.attr.Key != tc.key {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.key, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.val {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.val, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Status(404); v.Key != KeyStatus || v.Value.Int64() != 404 {
		t.Fatalf("Status = %v", v)
	}
	if v := Count(3); v.Key != KeyCount || v.Value.Int64() != 3 {
		t.Fatalf("Count = %v", v)
	}
	if v := DurationMS(1.5); v.Key != KeyDurationMS || v.Value.Float64() != 1.5 {
		t.Fatalf("DurationMS = %v", v)
	}
}
