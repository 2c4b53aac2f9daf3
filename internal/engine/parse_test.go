package engine

import "testing"

func TestExtractItemsCleanArray(t *testing.T) {
	raw := `[{"type":"clarity","text":"Vague claim.","suggestion":"Name the study."}]`
	items := ExtractItems(raw)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Type != "clarity" || items[0].Suggestion != "Name the study." {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestExtractItemsWrappedInProse(t *testing.T) {
	raw := "Here is my feedback:\n[{\"type\":\"structure\",\"text\":\"Split this section.\"}]\nHope it helps."
	items := ExtractItems(raw)
	if len(items) != 1 || items[0].Type != "structure" {
		t.Fatalf("expected wrapped array to parse, got %+v", items)
	}
}

func TestExtractItemsGarbage(t *testing.T) {
	for _, raw := range []string{"", "no json here", "[not json]", "[]", `[{"type":"x","text":"  "}]`} {
		if items := ExtractItems(raw); items != nil {
			t.Fatalf("expected nil for %q, got %+v", raw, items)
		}
	}
}
