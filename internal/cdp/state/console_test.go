package state

import "testing"

func TestConsoleFlattening(t *testing.T) {
	args := []ConsoleArg{
		{Type: "number", Value: float64(42)},
		{Type: "boolean", Value: true},
		{Type: "undefined"},
		{Type: "object", Description: "[object Object]", ClassName: "Object"},
	}
	c := NewConsoleState(100)
	c.OnConsoleAPICalled("log", args, 0, "", 0)

	msgs := c.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Text != "42 true undefined [object Object]" {
		t.Fatalf("got text %q", msgs[0].Text)
	}
	if msgs[0].Level != "log" {
		t.Fatalf("got level %q, want log", msgs[0].Level)
	}
}

func TestConsoleFlattenObjectDescriptionVerbatim(t *testing.T) {
	args := []ConsoleArg{
		{Type: "object", ClassName: "Object", Description: "custom object desc"},
	}
	c := NewConsoleState(100)
	c.OnConsoleAPICalled("log", args, 0, "", 0)

	msgs := c.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Text != "custom object desc" {
		t.Fatalf("got text %q, want the object's description returned verbatim", msgs[0].Text)
	}
}

func TestConsoleFlattenUnknownTypeFallback(t *testing.T) {
	args := []ConsoleArg{
		{Type: "symbol"},
	}
	c := NewConsoleState(100)
	c.OnConsoleAPICalled("log", args, 0, "", 0)

	msgs := c.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Text != "[symbol]" {
		t.Fatalf("got text %q, want a bracketed type fallback for a Description-less, non-primitive type", msgs[0].Text)
	}
}

func TestConsoleLevelDerivation(t *testing.T) {
	c := NewConsoleState(100)
	c.OnConsoleAPICalled("warning", nil, 0, "", 0)
	c.OnConsoleAPICalled("error", nil, 0, "", 0)
	c.OnConsoleAPICalled("info", nil, 0, "", 0)
	c.OnConsoleAPICalled("dir", nil, 0, "", 0)

	msgs := c.Messages()
	levels := make([]string, len(msgs))
	for i, m := range msgs {
		levels[i] = m.Level
	}
	want := []string{"warning", "error", "info", "log"}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("position %d: got %s want %s", i, levels[i], want[i])
		}
	}
}

func TestConsoleBoundedEviction(t *testing.T) {
	c := NewConsoleState(2)
	c.OnConsoleAPICalled("log", nil, 0, "", 0)
	c.OnConsoleAPICalled("log", nil, 1, "", 0)
	c.OnConsoleAPICalled("log", nil, 2, "", 0)

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages after eviction, got %d", len(msgs))
	}
	if msgs[0].Timestamp != 1 || msgs[1].Timestamp != 2 {
		t.Fatalf("expected oldest evicted, got timestamps %v %v", msgs[0].Timestamp, msgs[1].Timestamp)
	}
}
