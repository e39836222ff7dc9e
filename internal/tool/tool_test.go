package tool

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTextResultMarshalsValue(t *testing.T) {
	res := TextResult(map[string]int{"count": 3})
	if res.IsError {
		t.Fatal("expected IsError false")
	}
	if len(res.Content) != 1 || res.Content[0].Type != ContentText {
		t.Fatalf("expected single text content, got %+v", res.Content)
	}
	var decoded map[string]int
	if err := json.Unmarshal([]byte(res.Content[0].Text), &decoded); err != nil {
		t.Fatalf("expected valid JSON text: %v", err)
	}
	if decoded["count"] != 3 {
		t.Fatalf("expected count=3, got %v", decoded)
	}
}

func TestErrorResultPrefixesMessage(t *testing.T) {
	res := ErrorResult(errors.New("boom"))
	if !res.IsError {
		t.Fatal("expected IsError true")
	}
	if res.Content[0].Text != "Error: boom" {
		t.Fatalf("expected prefixed error text, got %q", res.Content[0].Text)
	}
}

func TestImageResultCarriesMimeType(t *testing.T) {
	res := ImageResult("YWJj", "image/png")
	if res.IsError {
		t.Fatal("expected IsError false")
	}
	c := res.Content[0]
	if c.Type != ContentImage || c.Data != "YWJj" || c.MimeType != "image/png" {
		t.Fatalf("unexpected content: %+v", c)
	}
}

func TestRegistryListIsSortedAndComplete(t *testing.T) {
	r := NewRegistry()
	tools := r.List()
	if len(tools) == 0 {
		t.Fatal("expected builtins to be registered")
	}
	for i := 1; i < len(tools); i++ {
		if tools[i-1].Name >= tools[i].Name {
			t.Fatalf("expected sorted tool names, got %q before %q", tools[i-1].Name, tools[i].Name)
		}
	}
	for _, name := range []string{"evaluate", "list_requests", "capture_screenshot", "capture_snapshot", "set_breakpoint"} {
		if _, ok := r.Get(name); !ok {
			t.Fatalf("expected builtin tool %q to be registered", name)
		}
	}
}

func TestRegistryGetUnknownToolMisses(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("does_not_exist"); ok {
		t.Fatal("expected unknown tool lookup to miss")
	}
}
