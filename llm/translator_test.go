package llm

import "testing"

func TestParseAction(t *testing.T) {
	act, err := ParseAction(`{"action": "click", "index": 3, "reasoning": "login button"}`)
	if err != nil {
		t.Fatalf("ParseAction: %v", err)
	}
	if act.Action != "click" {
		t.Errorf("Action = %q, want click", act.Action)
	}
	if act.Index == nil || *act.Index != 3 {
		t.Errorf("Index = %v, want 3", act.Index)
	}
	if act.Reasoning != "login button" {
		t.Errorf("Reasoning = %q", act.Reasoning)
	}
}

func TestParseActionStripsCodeFences(t *testing.T) {
	for _, raw := range []string{
		"```json\n{\"action\": \"done\", \"done\": true}\n```",
		"```\n{\"action\": \"done\", \"done\": true}\n```",
		"  {\"action\": \"done\", \"done\": true}  ",
	} {
		act, err := ParseAction(raw)
		if err != nil {
			t.Errorf("ParseAction(%q): %v", raw, err)
			continue
		}
		if act.Action != "done" || !act.Done {
			t.Errorf("ParseAction(%q) = %+v", raw, act)
		}
	}
}

func TestParseActionErrors(t *testing.T) {
	if _, err := ParseAction("not json"); err == nil {
		t.Error("expected error for non-JSON response")
	}
	if _, err := ParseAction(`{"index": 1}`); err == nil {
		t.Error("expected error for response without action")
	}
}
