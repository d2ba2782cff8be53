package endpoint

// Translator converts between the two shapes of the same logical entity.
// When target already holds a value, fields are merged into it in place
// so that its identity (primary keys, correlation ids) survives.
type Translator[T1, T2 any] interface {
	Forward(source T1, target *T2)
	Backward(source T2, target *T1)
}

// TranslatorFuncs adapts a pair of functions to Translator.
type TranslatorFuncs[T1, T2 any] struct {
	ForwardFunc  func(source T1, target *T2)
	BackwardFunc func(source T2, target *T1)
}

// Forward implements Translator.
func (f TranslatorFuncs[T1, T2]) Forward(source T1, target *T2) {
	f.ForwardFunc(source, target)
}

// Backward implements Translator.
func (f TranslatorFuncs[T1, T2]) Backward(source T2, target *T1) {
	f.BackwardFunc(source, target)
}
