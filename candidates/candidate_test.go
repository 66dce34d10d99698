package candidates

import (
	"testing"

	"github.com/cmu-l3/metagen/generators"
)

func TestCloneDoesNotAlias(t *testing.T) {
	base := Candidate{
		State: generators.NewPrompts("system", []*generators.Content{
			{
				Role:  generators.RoleUser,
				Parts: []generators.Part{generators.Text("task")},
			},
		}),
		Program: "method Foo() {}",
		Score:   0.5,
		Scored:  true,
	}

	a := base.Clone()
	b := base.Clone()

	var err error
	a, err = a.AppendTurn(generators.RoleModel, "refined program for a")
	if err != nil {
		t.Fatal(err)
	}

	if len(a.State.Contents()) != 2 {
		t.Fatalf("got %d", len(a.State.Contents()))
	}
	if len(b.State.Contents()) != 1 {
		t.Fatalf("clone b sees a's turn: %d contents", len(b.State.Contents()))
	}
	if len(base.State.Contents()) != 1 {
		t.Fatalf("base sees a's turn: %d contents", len(base.State.Contents()))
	}
}

func TestLatestModelText(t *testing.T) {

	t.Run("empty conversation", func(t *testing.T) {
		state := generators.NewPrompts("", nil)
		if text := LatestModelText(state); text != "" {
			t.Fatalf("got %q", text)
		}
	})

	t.Run("latest of several", func(t *testing.T) {
		state := generators.NewPrompts("", []*generators.Content{
			{
				Role:  generators.RoleModel,
				Parts: []generators.Part{generators.Text("old")},
			},
			{
				Role:  generators.RoleUser,
				Parts: []generators.Part{generators.Text("refine")},
			},
			{
				Role: generators.RoleModel,
				Parts: []generators.Part{
					generators.Thought("hmm"),
					generators.Text("new"),
				},
			},
		})
		if text := LatestModelText(state); text != "new" {
			t.Fatalf("got %q", text)
		}
	})

}
