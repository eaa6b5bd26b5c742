package helpers

// IfElse returns valueIfTrue or valueIfFalse depending on isTrue.
func IfElse[V any](isTrue bool, valueIfTrue, valueIfFalse V) V {
	if isTrue {
		return valueIfTrue
	}
	return valueIfFalse
}

// Plural returns singular if count is 1, or singular+"s" otherwise.
func Plural(count int, singular string) string {
	return IfElse(count == 1, singular, singular+"s")
}
