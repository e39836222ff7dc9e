package launcher

import "testing"

func TestOptionsDefaults(t *testing.T) {
	o := Options{CDPPort: 9222}.withDefaults()
	if o.CDPAddress != "127.0.0.1" {
		t.Fatalf("expected default address, got %q", o.CDPAddress)
	}
	if o.WindowSize != "1920,1080" {
		t.Fatalf("expected default window size, got %q", o.WindowSize)
	}
	if o.StartURL != "about:blank" {
		t.Fatalf("expected default start url, got %q", o.StartURL)
	}
}
