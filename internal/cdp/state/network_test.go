package state

import "testing"

func TestNetworkBoundedEviction(t *testing.T) {
	n := NewNetworkState(5)
	for i := 0; i < 10; i++ {
		id := RequestID("req" + string(rune('0'+i)))
		n.OnRequestWillBeSent(id, "http://x/"+string(rune('0'+i)), "GET", "Document", nil, float64(i))
	}
	all := n.GetAll()
	if len(all) != 5 {
		t.Fatalf("expected 5 surviving records, got %d", len(all))
	}
	want := []RequestID{"req5", "req6", "req7", "req8", "req9"}
	for i, r := range all {
		if r.RequestID != want[i] {
			t.Fatalf("position %d: got %s want %s", i, r.RequestID, want[i])
		}
	}
}

func TestNetworkSummaryCounts(t *testing.T) {
	n := NewNetworkState(0)
	n.OnRequestWillBeSent("a", "http://x/a", "GET", "Document", nil, 0)
	n.OnRequestWillBeSent("b", "http://x/b", "GET", "Document", nil, 1)
	n.OnRequestWillBeSent("c", "http://x/c", "GET", "Document", nil, 2)
	n.OnLoadingFinished("a", 0.05, 100)
	n.OnLoadingFailed("b", 1.05, "net::ERR_FAILED", false)

	s := n.GetSummary()
	if s.Total != 3 || s.Finished != 1 || s.Failed != 1 || s.Pending != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	all := n.GetAll()
	for _, r := range all {
		dur, ok := r.DurationMS()
		switch r.RequestID {
		case "a":
			if !ok || dur <= 0 {
				t.Fatalf("expected finished request to report a positive duration, got %v ok=%v", dur, ok)
			}
		case "c":
			if ok {
				t.Fatal("expected pending request to report no duration")
			}
		}
	}
}

func TestNetworkGetByURLUnanchoredSubstring(t *testing.T) {
	n := NewNetworkState(0)
	n.OnRequestWillBeSent("a", "https://api.example.com/v1/things", "GET", "XHR", nil, 0)
	n.OnRequestWillBeSent("b", "https://other.example.com/", "GET", "Document", nil, 1)

	got := n.GetByURL("api.example")
	if len(got) != 1 || got[0].RequestID != "a" {
		t.Fatalf("expected only request a to match, got %+v", got)
	}
}

func TestNetworkResponseOnUnknownRequestIsDropped(t *testing.T) {
	n := NewNetworkState(0)
	n.OnResponseReceived("ghost", 200, "text/plain", nil)
	if len(n.GetAll()) != 0 {
		t.Fatal("response for unknown request must not create a record")
	}
}
