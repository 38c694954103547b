package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ecommerce-chatbot-be/pkg/catalog"
)

func TestMemoryStoreContextRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Unknown session yields an empty context, not an error.
	sc, err := store.GetContext(ctx, "s1")
	if err != nil {
		t.Fatalf("GetContext error: %v", err)
	}
	if len(sc.LastResults) != 0 || sc.LastQuery != "" {
		t.Errorf("expected empty context, got %+v", sc)
	}

	sc = Context{
		LastQuery:   "gaming laptops",
		LastResults: []catalog.Product{{ID: "1", Brand: "Acme", Price: 999, Rating: 4.5}},
		Baseline:    []catalog.Product{{ID: "1"}, {ID: "2"}},
	}
	if err := store.SaveContext(ctx, "s1", sc); err != nil {
		t.Fatalf("SaveContext error: %v", err)
	}

	got, err := store.GetContext(ctx, "s1")
	if err != nil {
		t.Fatalf("GetContext error: %v", err)
	}
	if got.LastQuery != "gaming laptops" || len(got.Baseline) != 2 {
		t.Errorf("context not round-tripped: %+v", got)
	}
}

func TestMemoryStoreExchangeBuffer(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		ex := Exchange{
			User:      fmt.Sprintf("message %d", i),
			Bot:       fmt.Sprintf("reply %d", i),
			Intent:    "SEARCH",
			Timestamp: time.Now(),
		}
		if err := store.AppendExchange(ctx, "s1", ex); err != nil {
			t.Fatalf("AppendExchange error: %v", err)
		}
	}

	exchanges, err := store.RecentExchanges(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("RecentExchanges error: %v", err)
	}
	if len(exchanges) != maxExchanges {
		t.Fatalf("buffer length = %d, want %d", len(exchanges), maxExchanges)
	}
	// Oldest retained turn is number 2 after trimming 8 down to 6.
	if exchanges[0].User != "message 2" {
		t.Errorf("oldest = %q, want %q", exchanges[0].User, "message 2")
	}
	if exchanges[len(exchanges)-1].User != "message 7" {
		t.Errorf("newest = %q, want %q", exchanges[len(exchanges)-1].User, "message 7")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.SaveContext(ctx, "s1", Context{LastQuery: "phones"})
	store.AppendExchange(ctx, "s1", Exchange{User: "hi", Bot: "hello"})

	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	sc, _ := store.GetContext(ctx, "s1")
	if sc.LastQuery != "" {
		t.Error("context should be gone after Clear")
	}
	exchanges, _ := store.RecentExchanges(ctx, "s1", 10)
	if len(exchanges) != 0 {
		t.Error("exchanges should be gone after Clear")
	}
}

func TestContextString(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if got := ContextString(ctx, store, "s1", 5); got != "" {
		t.Errorf("empty session ContextString = %q, want empty", got)
	}

	store.AppendExchange(ctx, "s1", Exchange{User: "show me phones", Bot: "Here are 3 phones."})
	store.AppendExchange(ctx, "s1", Exchange{User: "cheaper", Bot: "Here are cheaper ones."})

	want := "User: show me phones\nBot: Here are 3 phones.\nUser: cheaper\nBot: Here are cheaper ones."
	if got := ContextString(ctx, store, "s1", 5); got != want {
		t.Errorf("ContextString = %q, want %q", got, want)
	}
}

func TestContextHelpers(t *testing.T) {
	c := Context{LastResults: []catalog.Product{
		{Brand: "Acme", Price: 499, Rating: 4.2},
		{Brand: "Acme", Price: 299, Rating: 4.8},
	}}

	if brand, ok := c.SharedBrand(2); !ok || brand != "Acme" {
		t.Errorf("SharedBrand = %q,%v want Acme,true", brand, ok)
	}
	if _, ok := c.SharedBrand(3); ok {
		t.Error("SharedBrand should require the minimum count")
	}

	mixedCase := Context{LastResults: []catalog.Product{
		{Brand: "Samsung"},
		{Brand: "SAMSUNG"},
	}}
	if brand, ok := mixedCase.SharedBrand(2); !ok || brand != "Samsung" {
		t.Errorf("SharedBrand = %q,%v want case-insensitive agreement", brand, ok)
	}

	disagreeing := Context{LastResults: []catalog.Product{
		{Brand: "Samsung"},
		{Brand: "Apple"},
	}}
	if _, ok := disagreeing.SharedBrand(2); ok {
		t.Error("SharedBrand should reject mixed brands")
	}
	if min, _ := c.MinPrice(); min != 299 {
		t.Errorf("MinPrice = %v, want 299", min)
	}
	if max, _ := c.MaxRating(); max != 4.8 {
		t.Errorf("MaxRating = %v, want 4.8", max)
	}

	c.UpdateBaseline([]catalog.Product{{ID: "1"}})
	if len(c.Baseline) != 1 {
		t.Error("baseline should grow from empty")
	}
	c.UpdateBaseline(nil)
	if len(c.Baseline) != 1 {
		t.Error("baseline must not shrink")
	}
}
