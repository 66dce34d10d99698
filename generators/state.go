package generators

type State interface {
	Contents() []*Content
	AppendContent(*Content) (State, error)
	SystemPrompt() string
	Flush() (State, error)
	Unwrap() State
}
