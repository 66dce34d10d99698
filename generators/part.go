package generators

import (
	"fmt"

	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
)

type Part interface {
	isPart()
	ToGemini() (*generativelanguagepb.Part, error)
}

type Text string

func (Text) isPart() {}

func (t Text) ToGemini() (*generativelanguagepb.Part, error) {
	return &generativelanguagepb.Part{
		Data: &generativelanguagepb.Part_Text{
			Text: string(t),
		},
	}, nil
}

type Thought string

func (Thought) isPart() {}

func (t Thought) ToGemini() (*generativelanguagepb.Part, error) {
	return &generativelanguagepb.Part{
		Data: &generativelanguagepb.Part_Text{
			Text: string(t),
		},
		Thought: true,
	}, nil
}

type FinishReason string

func (FinishReason) isPart() {}

func (FinishReason) ToGemini() (*generativelanguagepb.Part, error) {
	return nil, nil
}

type Usage struct {
	Prompt struct {
		TokenCount       int
		TokenCountCached int
	}
	Candidates struct {
		TokenCount int
	}
	Thoughts struct {
		TokenCount int
	}
}

func (Usage) isPart() {}

func (Usage) ToGemini() (*generativelanguagepb.Part, error) {
	return nil, nil
}

type Error struct {
	Error error
}

func (Error) isPart() {}

func (Error) ToGemini() (*generativelanguagepb.Part, error) {
	return nil, nil
}

func PartFromGemini(part *generativelanguagepb.Part) (Part, error) {
	switch data := part.Data.(type) {

	case *generativelanguagepb.Part_Text:
		if part.Thought {
			return Thought(data.Text), nil
		} else {
			return Text(data.Text), nil
		}

	case *generativelanguagepb.Part_CodeExecutionResult:
		output := data.CodeExecutionResult.GetOutput()
		return Text(output), nil

	case *generativelanguagepb.Part_ExecutableCode:
		code := data.ExecutableCode.GetCode()
		return Text(code), nil

	}

	return nil, fmt.Errorf("unknown part type: %T", part)
}
