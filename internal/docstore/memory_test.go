package docstore

import (
	"context"
	"errors"
	"testing"
)

type listing struct {
	ID         string  `json:"_id,omitempty"`
	Title      string  `json:"title"`
	AgentEmail string  `json:"agentEmail"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
}

func seed(t *testing.T, c Collection, docs ...listing) []string {
	t.Helper()
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		res, err := c.InsertOne(context.Background(), d)
		if err != nil {
			t.Fatalf("InsertOne: %v", err)
		}
		ids = append(ids, res.InsertedID)
	}
	return ids
}

func TestMemoryCollection_InsertAssignsID(t *testing.T) {
	c := NewMemoryStore().Collection("properties")
	ids := seed(t, c, listing{Title: "Loft"})
	if ids[0] == "" {
		t.Fatal("expected generated _id")
	}

	var got listing
	if err := c.FindOne(context.Background(), Filter{IDField: ids[0]}, &got); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.ID != ids[0] || got.Title != "Loft" {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryCollection_InsertDuplicateID(t *testing.T) {
	c := NewMemoryStore().Collection("properties")
	seed(t, c, listing{ID: "p1"})
	if _, err := c.InsertOne(context.Background(), listing{ID: "p1"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestMemoryCollection_FindFiltersAndKeepsOrder(t *testing.T) {
	c := NewMemoryStore().Collection("properties")
	seed(t, c,
		listing{Title: "a", AgentEmail: "alice@example.com"},
		listing{Title: "b", AgentEmail: "bob@example.com"},
		listing{Title: "c", AgentEmail: "alice@example.com"},
	)

	var got []listing
	if err := c.Find(context.Background(), Filter{"agentEmail": "alice@example.com"}, &got); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "c" {
		t.Errorf("got %+v", got)
	}

	var all []listing
	if err := c.Find(context.Background(), nil, &all); err != nil {
		t.Fatalf("Find all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestMemoryCollection_FindNumericFilter(t *testing.T) {
	c := NewMemoryStore().Collection("properties")
	seed(t, c, listing{Title: "a", Price: 100}, listing{Title: "b", Price: 200})

	var got []listing
	if err := c.Find(context.Background(), Filter{"price": 200}, &got); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 || got[0].Title != "b" {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryCollection_FindEmptyResultIsEmptySlice(t *testing.T) {
	c := NewMemoryStore().Collection("properties")
	var got []listing
	if err := c.Find(context.Background(), Filter{"title": "none"}, &got); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}

func TestMemoryCollection_FindOneMissing(t *testing.T) {
	c := NewMemoryStore().Collection("users")
	var got listing
	if err := c.FindOne(context.Background(), Filter{"title": "x"}, &got); !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("err = %v, want ErrNoDocuments", err)
	}
}

func TestMemoryCollection_UpdateOneCounts(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore().Collection("properties")
	ids := seed(t, c, listing{Title: "a", Status: "pending"})

	tests := []struct {
		name         string
		filter       Filter
		set          Set
		wantMatched  int64
		wantModified int64
	}{
		{"no match", Filter{IDField: "missing"}, Set{"status": "verified"}, 0, 0},
		{"changes value", Filter{IDField: ids[0]}, Set{"status": "verified"}, 1, 1},
		{"same value", Filter{IDField: ids[0]}, Set{"status": "verified"}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.UpdateOne(ctx, tt.filter, tt.set)
			if err != nil {
				t.Fatalf("UpdateOne: %v", err)
			}
			if res.MatchedCount != tt.wantMatched || res.ModifiedCount != tt.wantModified {
				t.Errorf("got %+v, want matched=%d modified=%d", res, tt.wantMatched, tt.wantModified)
			}
		})
	}
}

func TestMemoryCollection_UpdateCannotChangeID(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore().Collection("properties")
	ids := seed(t, c, listing{Title: "a"})

	if _, err := c.UpdateOne(ctx, Filter{IDField: ids[0]}, Set{IDField: "hijack", "title": "b"}); err != nil {
		t.Fatalf("UpdateOne: %v", err)
	}
	var got listing
	if err := c.FindOne(ctx, Filter{IDField: ids[0]}, &got); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.Title != "b" {
		t.Errorf("title = %q, want b", got.Title)
	}
}

func TestMemoryCollection_UpdateMany(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore().Collection("offers")
	seed(t, c,
		listing{Title: "a", Status: "pending"},
		listing{Title: "a", Status: "rejected"},
		listing{Title: "a", Status: "pending"},
		listing{Title: "b", Status: "pending"},
	)

	res, err := c.UpdateMany(ctx, Filter{"title": "a"}, Set{"status": "rejected"})
	if err != nil {
		t.Fatalf("UpdateMany: %v", err)
	}
	if res.MatchedCount != 3 || res.ModifiedCount != 2 {
		t.Errorf("got %+v, want matched=3 modified=2", res)
	}
}

func TestMemoryCollection_DeleteOne(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore().Collection("reviews")
	ids := seed(t, c, listing{Title: "a"}, listing{Title: "b"})

	res, err := c.DeleteOne(ctx, Filter{IDField: ids[0]})
	if err != nil {
		t.Fatalf("DeleteOne: %v", err)
	}
	if res.DeletedCount != 1 {
		t.Errorf("DeletedCount = %d, want 1", res.DeletedCount)
	}
	res, err = c.DeleteOne(ctx, Filter{IDField: ids[0]})
	if err != nil {
		t.Fatalf("DeleteOne again: %v", err)
	}
	if res.DeletedCount != 0 {
		t.Errorf("DeletedCount = %d, want 0", res.DeletedCount)
	}

	var rest []listing
	if err := c.Find(ctx, nil, &rest); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(rest) != 1 || rest[0].Title != "b" {
		t.Errorf("remaining = %+v", rest)
	}
}

func TestMemoryCollection_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore().Collection("properties")
	ids := seed(t, c, listing{Title: "a"})

	var got map[string]any
	if err := c.FindOne(ctx, Filter{IDField: ids[0]}, &got); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	got["title"] = "mutated"

	var again listing
	if err := c.FindOne(ctx, Filter{IDField: ids[0]}, &again); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if again.Title != "a" {
		t.Errorf("stored document was mutated through a returned value")
	}
}

func TestMemoryCollection_RejectsNonScalarFilters(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStore().Collection("properties")
	seed(t, c, listing{Title: "a"})

	filters := []Filter{
		{"tags": []string{"garden"}},
		{"address": map[string]any{"city": "Lyon"}},
	}
	for _, f := range filters {
		var out []listing
		if err := c.Find(ctx, f, &out); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("Find(%v) err = %v, want ErrInvalidFilter", f, err)
		}
		if _, err := c.UpdateMany(ctx, f, Set{"status": "verified"}); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("UpdateMany(%v) err = %v, want ErrInvalidFilter", f, err)
		}
		if _, err := c.DeleteOne(ctx, f); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("DeleteOne(%v) err = %v, want ErrInvalidFilter", f, err)
		}
	}
}

func TestMemoryCollection_UniqueField(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithUniqueField("users", "agentEmail"))
	users := store.Collection("users")
	ids := seed(t, users, listing{AgentEmail: "alice@example.com"}, listing{AgentEmail: "bob@example.com"})

	if _, err := users.InsertOne(ctx, listing{AgentEmail: "alice@example.com"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("InsertOne err = %v, want ErrDuplicateKey", err)
	}
	if _, err := users.UpdateOne(ctx, Filter{IDField: ids[1]}, Set{"agentEmail": "alice@example.com"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("UpdateOne err = %v, want ErrDuplicateKey", err)
	}
	// Rewriting a document's own value is not a conflict.
	if _, err := users.UpdateOne(ctx, Filter{IDField: ids[0]}, Set{"agentEmail": "alice@example.com"}); err != nil {
		t.Fatalf("UpdateOne same value: %v", err)
	}

	// The constraint is scoped to its collection.
	seed(t, store.Collection("properties"), listing{AgentEmail: "alice@example.com"}, listing{AgentEmail: "alice@example.com"})
}
