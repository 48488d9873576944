package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/iceplan/internal/budget"
	"github.com/theirongolddev/iceplan/internal/codec"
	"github.com/theirongolddev/iceplan/internal/store"
)

const testBase = "https://example.com/plan"

func storeWith(t *testing.T, s budget.State) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	if s == nil {
		return mem
	}
	blob, err := codec.EncodeStore(s)
	if err != nil {
		t.Fatalf("EncodeStore: %v", err)
	}
	if err := mem.Put(context.Background(), codec.StoreKey, blob); err != nil {
		t.Fatalf("Put: %v", err)
	}
	return mem
}

func linkWith(t *testing.T, s budget.State) string {
	t.Helper()
	link, err := codec.ShareURL(testBase, s)
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	return link
}

func storedState(t *testing.T, mem *store.Memory) (budget.State, bool) {
	t.Helper()
	blob, ok, _ := mem.Get(context.Background(), codec.StoreKey)
	if !ok {
		return nil, false
	}
	s, err := codec.DecodeStore(blob)
	if err != nil {
		t.Fatalf("DecodeStore: %v", err)
	}
	return s, true
}

func TestLoad_Defaults(t *testing.T) {
	sess := Load(context.Background(), store.NewMemory(), "")
	m := sess.Model()

	if sess.Source() != SourceDefaults {
		t.Fatalf("Source = %v, want defaults", sess.Source())
	}
	if m.Total() != 18450.75 || m.PerPlayer() != 18450.75 {
		t.Fatalf("total = %v, per player = %v", m.Total(), m.PerPlayer())
	}
	if sess.Persisted() {
		t.Fatal("fresh defaults reported as persisted")
	}
}

func TestLoad_LinkBeatsStore(t *testing.T) {
	mem := storeWith(t, budget.State{"numPlayers": 10.0})
	link := linkWith(t, budget.State{"numPlayers": 4.0})

	sess := Load(context.Background(), mem, link)
	if got := sess.Model().NumPlayers(); got != 4 {
		t.Fatalf("NumPlayers = %d, want 4", got)
	}
	if sess.Source() != SourceLink {
		t.Fatalf("Source = %v, want link", sess.Source())
	}
}

func TestLoad_StoreWhenNoLink(t *testing.T) {
	mem := storeWith(t, budget.State{"numPlayers": 10.0, "teamName": "Owls"})

	sess := Load(context.Background(), mem, "")
	m := sess.Model()
	if m.NumPlayers() != 10 || m.TeamName() != "Owls" {
		t.Fatalf("loaded players=%d name=%q", m.NumPlayers(), m.TeamName())
	}
	if sess.Source() != SourceStore || !sess.Persisted() {
		t.Fatalf("Source = %v, Persisted = %v", sess.Source(), sess.Persisted())
	}
}

func TestLoad_MalformedLinkFallsBackToStore(t *testing.T) {
	mem := storeWith(t, budget.State{"numPlayers": 10.0})

	sess := Load(context.Background(), mem, testBase+"?plan=!!notbase64!!")
	if got := sess.Model().NumPlayers(); got != 10 {
		t.Fatalf("NumPlayers = %d, want 10 from store", got)
	}
}

func TestLoad_MalformedStoreFallsBackToDefaults(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.Put(context.Background(), codec.StoreKey, "{corrupt")

	sess := Load(context.Background(), mem, "")
	if sess.Source() != SourceDefaults {
		t.Fatalf("Source = %v, want defaults", sess.Source())
	}
	if sess.Model().Total() != 18450.75 {
		t.Fatalf("Total = %v, want default total", sess.Model().Total())
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Put(context.Context, string, string) error { return f.err }
func (f failingStore) Delete(context.Context, string) error { return f.err }

func TestLoad_StoreErrorFallsBackToDefaults(t *testing.T) {
	sess := Load(context.Background(), failingStore{err: errors.New("disk gone")}, "")
	if sess.Source() != SourceDefaults {
		t.Fatalf("Source = %v, want defaults", sess.Source())
	}

	err := sess.Set(context.Background(), budget.FieldNumPlayers, 3)
	if err == nil {
		t.Fatal("Set with failing store returned nil error")
	}
	if sess.Model().NumPlayers() != 3 {
		t.Fatal("model not updated when the save failed")
	}
	if sess.Persisted() {
		t.Fatal("Persisted = true after failed save")
	}
}

func TestLinkLoad_DoesNotOverwriteStoreUntilEdit(t *testing.T) {
	ctx := context.Background()
	mem := storeWith(t, budget.State{"numPlayers": 10.0, "teamName": "Mine"})
	link := linkWith(t, budget.State{"numPlayers": 4.0, "teamName": "Theirs"})

	sess := Load(ctx, mem, link)
	if sess.Persisted() {
		t.Fatal("link-loaded plan reported as persisted")
	}
	saved, _ := storedState(t, mem)
	if saved["teamName"] != "Mine" {
		t.Fatalf("store overwritten by link load: %v", saved)
	}

	if err := sess.Increment(ctx, budget.FieldNumPlayers); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	saved, _ = storedState(t, mem)
	if saved["teamName"] != "Theirs" || saved["numPlayers"] != 5.0 {
		t.Fatalf("store after edit = %v, want shared plan with 5 players", saved)
	}
	if !sess.Persisted() {
		t.Fatal("Persisted = false after edit")
	}
}

func TestEdits_PersistEverySuccessfulMutation(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sess := Load(ctx, mem, "")

	steps := []struct {
		name  string
		apply func() error
		key   string
		want  any
	}{
		{"set", func() error { return sess.Set(ctx, budget.FieldIceHours, "60") }, "iceHours", 60.0},
		{"set by name", func() error { return sess.SetField(ctx, "jerseyCost", 95) }, "jerseyCost", 95.0},
		{"team name", func() error { return sess.SetField(ctx, "teamName", "Bears") }, "teamName", "Bears"},
		{"increment", func() error { return sess.Increment(ctx, budget.FieldNumPlayers) }, "numPlayers", 2.0},
		{"decrement", func() error { return sess.Decrement(ctx, budget.FieldFeePercent) }, "feePercent", 1.0},
	}
	for _, st := range steps {
		if err := st.apply(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		saved, ok := storedState(t, mem)
		if !ok {
			t.Fatalf("%s: nothing stored", st.name)
		}
		if saved[st.key] != st.want {
			t.Fatalf("%s: stored %s = %v, want %v", st.name, st.key, saved[st.key], st.want)
		}
	}
}

func TestEdits_InvalidFieldDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sess := Load(ctx, mem, "")

	if err := sess.SetField(ctx, "jerseyQuantity", 7); !errors.Is(err, budget.ErrInvalidField) {
		t.Fatalf("SetField(jerseyQuantity) = %v, want ErrInvalidField", err)
	}
	if _, ok := storedState(t, mem); ok {
		t.Fatal("invalid field edit wrote to the store")
	}
}

func TestReset_ClearsStore(t *testing.T) {
	ctx := context.Background()
	mem := storeWith(t, budget.State{"numPlayers": 10.0})
	sess := Load(ctx, mem, "")

	if err := sess.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, ok := storedState(t, mem); ok {
		t.Fatal("store still holds a plan after Reset")
	}
	if sess.Model().NumPlayers() != 1 || sess.Source() != SourceDefaults {
		t.Fatalf("after Reset players=%d source=%v", sess.Model().NumPlayers(), sess.Source())
	}

	// A later load sees defaults.
	again := Load(ctx, mem, "")
	if again.Source() != SourceDefaults {
		t.Fatalf("reload Source = %v, want defaults", again.Source())
	}
}

func TestModel_ReturnsCopy(t *testing.T) {
	sess := Load(context.Background(), store.NewMemory(), "")
	m := sess.Model()
	_ = m.Set(budget.FieldNumPlayers, 99)
	if sess.Model().NumPlayers() != 1 {
		t.Fatal("mutating the returned model changed the session")
	}
}

func TestShareURL_RoundTripsThroughLoad(t *testing.T) {
	ctx := context.Background()
	sess := Load(ctx, store.NewMemory(), "", WithShareBase(testBase))
	_ = sess.SetField(ctx, "teamName", "Sharks & Co")
	_ = sess.SetField(ctx, "numPlayers", 14)
	_ = sess.SetField(ctx, "fixedFee", 12.5)

	link, err := sess.ShareURL()
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if !strings.HasPrefix(link, testBase+"?plan=") {
		t.Fatalf("link = %s", link)
	}

	other := Load(ctx, store.NewMemory(), link)
	if other.Model().Total() != sess.Model().Total() || other.Model().TeamName() != "Sharks & Co" {
		t.Fatalf("shared plan mismatch: %v vs %v", other.Model().Total(), sess.Model().Total())
	}
}

type fakeClipboard struct {
	got string
	err error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.got = text
	return f.err
}

func TestCopyShareURL(t *testing.T) {
	ctx := context.Background()
	sess := Load(ctx, store.NewMemory(), "", WithShareBase(testBase))

	cb := &fakeClipboard{}
	res := sess.CopyShareURL(ctx, cb)
	if !res.Copied() || cb.got != res.URL {
		t.Fatalf("CopyShareURL = %+v, clipboard = %q", res, cb.got)
	}

	failing := &fakeClipboard{err: ErrClipboardUnavailable}
	res = sess.CopyShareURL(ctx, failing)
	if res.Copied() {
		t.Fatal("Copied() = true on failure")
	}
	if !errors.Is(res.Err, ErrClipboardUnavailable) {
		t.Fatalf("Err = %v, want ErrClipboardUnavailable", res.Err)
	}
	if res.URL == "" {
		t.Fatal("failed copy dropped the URL fallback")
	}
}
