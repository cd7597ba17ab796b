package features

import "fmt"

// Vocabulary is a fitted label encoder: classes in training order, where a
// class's code is its index. It is never extended after construction.
type Vocabulary struct {
	name      string
	classes   []string
	index     map[string]int
	normalize func(string) string
}

// NewVocabulary builds a vocabulary from the fitted class list.
// Duplicate classes are rejected since they would make decoding ambiguous.
func NewVocabulary(name string, classes []string) (*Vocabulary, error) {
	return NewNormalizedVocabulary(name, classes, nil)
}

// NewNormalizedVocabulary is NewVocabulary with every class, and every value
// later passed to Encode or Contains, mapped through normalize. Codes keep
// the fitted order; classes that collide after normalizing are rejected.
func NewNormalizedVocabulary(name string, classes []string, normalize func(string) string) (*Vocabulary, error) {
	v := &Vocabulary{
		name:      name,
		classes:   make([]string, len(classes)),
		index:     make(map[string]int, len(classes)),
		normalize: normalize,
	}
	for i, c := range classes {
		c = v.key(c)
		if _, dup := v.index[c]; dup {
			return nil, fmt.Errorf("vocabulary %s: duplicate class %q", name, c)
		}
		v.index[c] = i
		v.classes[i] = c
	}
	return v, nil
}

func (v *Vocabulary) key(class string) string {
	if v.normalize == nil {
		return class
	}
	return v.normalize(class)
}

// CategoryError reports a category absent from a fitted vocabulary.
type CategoryError struct {
	Vocabulary string
	Value      string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("%s %q not in fitted vocabulary", e.Vocabulary, e.Value)
}

func (v *Vocabulary) Name() string { return v.name }

func (v *Vocabulary) Len() int { return len(v.classes) }

// Classes returns a copy of the class list in code order.
func (v *Vocabulary) Classes() []string {
	return append([]string(nil), v.classes...)
}

func (v *Vocabulary) Contains(class string) bool {
	_, ok := v.index[v.key(class)]
	return ok
}

// Encode returns the code for class, or a *CategoryError when unseen.
func (v *Vocabulary) Encode(class string) (int, error) {
	code, ok := v.index[v.key(class)]
	if !ok {
		return 0, &CategoryError{Vocabulary: v.name, Value: class}
	}
	return code, nil
}

// Decode returns the class for code.
func (v *Vocabulary) Decode(code int) (string, error) {
	if code < 0 || code >= len(v.classes) {
		return "", fmt.Errorf("%s code %d out of range [0,%d)", v.name, code, len(v.classes))
	}
	return v.classes[code], nil
}
