package generators

type OpenAIParser struct {
	current *Content
}

func (o *OpenAIParser) Input(delta ChatCompletionStreamChoiceDelta) (ret []*Content, err error) {
	if deltaIsEmpty(delta) {
		return nil, nil
	}

	if o.current == nil {
		// new content
		o.current = &Content{
			Role: Role(delta.Role),
		}
	} else if delta.Role != "" && o.current.Role != Role(delta.Role) {
		// role change, new content
		ret = append(ret, o.current)
		o.current = &Content{
			Role: Role(delta.Role),
		}
	}

	if delta.Content != "" {
		o.appendPart(Text(delta.Content))
		lastText := o.current.Parts[len(o.current.Parts)-1].(Text)
		if len(lastText) > 64 {
			ret = append(ret, o.current)
			o.current = &Content{
				Role: o.current.Role,
			}
		}
	}

	if delta.ReasoningContent != "" {
		o.appendPart(Thought(delta.ReasoningContent))
		lastThought := o.current.Parts[len(o.current.Parts)-1].(Thought)
		if len(lastThought) > 64 {
			ret = append(ret, o.current)
			o.current = &Content{
				Role: o.current.Role,
			}
		}
	}

	return
}

func (o *OpenAIParser) appendPart(part Part) {
	// merge
	if len(o.current.Parts) > 0 {
		prev := o.current.Parts[len(o.current.Parts)-1]
		switch part := part.(type) {
		case Text:
			if text, ok := prev.(Text); ok {
				o.current.Parts[len(o.current.Parts)-1] = text + part
				return
			}
		case Thought:
			if thought, ok := prev.(Thought); ok {
				o.current.Parts[len(o.current.Parts)-1] = thought + part
				return
			}
		}
	}
	o.current.Parts = append(o.current.Parts, part)
}

func (o *OpenAIParser) End() (ret []*Content, err error) {
	if o.current != nil {
		ret = append(ret, o.current)
		o.current = nil
	}
	return
}

func deltaIsEmpty(delta ChatCompletionStreamChoiceDelta) bool {
	return delta.Content == "" &&
		delta.Role == "" &&
		delta.ReasoningContent == ""
}
