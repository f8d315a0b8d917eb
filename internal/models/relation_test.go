package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

// TestRelationRefUnmarshal covers both accepted payload shapes for
// relationship fields: bare id strings and full junction objects.
func TestRelationRefUnmarshal(t *testing.T) {
	id := uuid.New()

	t.Run("bare id list", func(t *testing.T) {
		payload := `["` + id.String() + `"]`
		var refs []RelationRef
		if err := json.Unmarshal([]byte(payload), &refs); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(refs) != 1 {
			t.Fatalf("got %d refs, want 1", len(refs))
		}
		if refs[0].ID != id {
			t.Errorf("id: got %s, want %s", refs[0].ID, id)
		}
		if refs[0].IsHighlight || refs[0].IsPremium {
			t.Error("flags should default to false for bare ids")
		}
	})

	t.Run("object list", func(t *testing.T) {
		payload := `[{"id":"` + id.String() + `","is_highlight":true,"is_premium":false}]`
		var refs []RelationRef
		if err := json.Unmarshal([]byte(payload), &refs); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if refs[0].ID != id {
			t.Errorf("id: got %s, want %s", refs[0].ID, id)
		}
		if !refs[0].IsHighlight {
			t.Error("is_highlight should be true")
		}
		if refs[0].IsPremium {
			t.Error("is_premium should be false")
		}
	})

	t.Run("mixed list", func(t *testing.T) {
		other := uuid.New()
		payload := `["` + id.String() + `",{"id":"` + other.String() + `","is_premium":true}]`
		var refs []RelationRef
		if err := json.Unmarshal([]byte(payload), &refs); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(refs) != 2 {
			t.Fatalf("got %d refs, want 2", len(refs))
		}
		if !refs[1].IsPremium {
			t.Error("second ref should be premium")
		}
	})

	t.Run("invalid id string", func(t *testing.T) {
		var ref RelationRef
		if err := json.Unmarshal([]byte(`"not-a-uuid"`), &ref); err == nil {
			t.Error("expected error for invalid uuid")
		}
	})

	t.Run("object missing id", func(t *testing.T) {
		var ref RelationRef
		if err := json.Unmarshal([]byte(`{"is_highlight":true}`), &ref); err == nil {
			t.Error("expected error for object without id")
		}
	})
}

func TestRelationIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	ids := RelationIDs([]RelationRef{{ID: a}, {ID: b, IsPremium: true}})
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("RelationIDs mismatch: %v", ids)
	}
	if RelationIDs(nil) != nil {
		t.Error("nil input should return nil")
	}
}
