package vars

func PtrTo[T any](value T) *T {
	return &value
}
