package candidates

import (
	"github.com/cmu-l3/metagen/generators"
)

// Candidate is one trajectory in a search population: the conversation
// that produced it, the latest extracted program, and its evaluation.
// Scored reports whether Score and Feedback are meaningful; an unscored
// candidate is excluded from selection.
type Candidate struct {
	State    generators.State
	Program  string
	Feedback string
	Score    float64
	Scored   bool
}

// Clone branches the trajectory. Prompts is copy-on-append, so sharing
// the turn log between clones is safe; appends to one clone never show
// up in another.
func (c Candidate) Clone() Candidate {
	return c
}

// AppendTurn extends the conversation with a single text turn.
func (c Candidate) AppendTurn(role generators.Role, text string) (Candidate, error) {
	state, err := c.State.AppendContent(&generators.Content{
		Role: role,
		Parts: []generators.Part{
			generators.Text(text),
		},
	})
	if err != nil {
		return c, err
	}
	c.State = state
	return c, nil
}

// LatestModelText returns the text of the most recent model turn, or
// empty if the model has not spoken yet.
func LatestModelText(state generators.State) string {
	prompts, ok := generators.As[generators.Prompts](state)
	if ok {
		state = prompts
	}
	contents := state.Contents()
	for i := len(contents) - 1; i >= 0; i-- {
		content := contents[i]
		if content.Role != generators.RoleModel && content.Role != generators.RoleAssistant {
			continue
		}
		var text string
		for _, part := range content.Parts {
			if t, ok := part.(generators.Text); ok {
				text += string(t)
			}
		}
		return text
	}
	return ""
}
