package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// A nil pool panics on use, so these cases also prove that arguments are
// validated before any round trip to the database.
func TestPostgresCollection_RejectsNonScalarFilters(t *testing.T) {
	ctx := context.Background()
	c := NewPostgresStore(nil).Collection("properties")
	f := Filter{"tags": []string{"garden"}}

	var out []listing
	if err := c.Find(ctx, f, &out); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("Find err = %v", err)
	}
	var one listing
	if err := c.FindOne(ctx, f, &one); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("FindOne err = %v", err)
	}
	if _, err := c.UpdateOne(ctx, f, Set{"status": "verified"}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("UpdateOne err = %v", err)
	}
	if _, err := c.UpdateMany(ctx, f, Set{"status": "verified"}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("UpdateMany err = %v", err)
	}
	if _, err := c.DeleteOne(ctx, Filter{"address": map[string]any{"city": "Lyon"}}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("DeleteOne err = %v", err)
	}
}

func TestPostgresCollection_FilterJSON(t *testing.T) {
	c := &postgresCollection{name: "properties"}
	tests := []struct {
		filter Filter
		want   string
	}{
		{nil, `{}`},
		{Filter{"status": "verified"}, `{"status":"verified"}`},
		{Filter{"price": 250000, "sold": false}, `{"price":250000,"sold":false}`},
	}
	for _, tt := range tests {
		got, err := c.filterJSON(tt.filter)
		if err != nil {
			t.Fatalf("filterJSON(%v): %v", tt.filter, err)
		}
		if got != tt.want {
			t.Errorf("filterJSON(%v) = %s, want %s", tt.filter, got, tt.want)
		}
	}
}

func TestPostgresCollection_UpdateArgsStripsID(t *testing.T) {
	c := &postgresCollection{name: "properties"}
	_, patch, err := c.updateArgs(Filter{IDField: "p1"}, Set{IDField: "p2", "status": "verified"})
	if err != nil {
		t.Fatalf("updateArgs: %v", err)
	}
	if patch != `{"status":"verified"}` {
		t.Errorf("patch = %s", patch)
	}
}

func TestMapWriteError(t *testing.T) {
	other := errors.New("connection reset")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"primary key", &pgconn.PgError{Code: uniqueViolation, ConstraintName: primaryKeyName}, ErrDuplicateID},
		{"field index", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "documents_users_email_key"}, ErrDuplicateKey},
		{"wrapped", fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolation}), ErrDuplicateKey},
		{"other code", &pgconn.PgError{Code: "23503"}, nil},
		{"plain", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError(tt.err)
			if tt.want == nil {
				if got != tt.err {
					t.Errorf("got %v, want the original error", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
