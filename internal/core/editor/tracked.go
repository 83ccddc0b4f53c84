package editor

import (
	"reflect"

	"github.com/mitchellh/hashstructure/v2"
)

// Tracked holds a value together with the baseline it is compared against.
// Comparison is structural: two values with the same exported content are
// equal regardless of identity.
type Tracked[T any] struct {
	current      T
	baseline     T
	baselineHash uint64
	hashOK       bool
}

// NewTracked starts tracking initial, which is also the first baseline.
func NewTracked[T any](initial T) *Tracked[T] {
	t := &Tracked[T]{current: initial}
	t.Rebaseline()
	return t
}

// Current returns the working value.
func (t *Tracked[T]) Current() T { return t.current }

// Baseline returns the last saved value.
func (t *Tracked[T]) Baseline() T { return t.baseline }

// Set replaces the working value.
func (t *Tracked[T]) Set(v T) { t.current = v }

// Update applies fn to the working value.
func (t *Tracked[T]) Update(fn func(T) T) { t.current = fn(t.current) }

// Dirty reports whether the working value differs from the baseline.
func (t *Tracked[T]) Dirty() bool {
	if t.hashOK {
		if h, err := fingerprint(t.current); err == nil {
			return h != t.baselineHash
		}
	}
	return !reflect.DeepEqual(t.current, t.baseline)
}

// Rebaseline makes the working value the new baseline.
func (t *Tracked[T]) Rebaseline() {
	t.baseline = t.current
	t.baselineHash, t.hashOK = 0, false
	if h, err := fingerprint(t.baseline); err == nil {
		t.baselineHash, t.hashOK = h, true
	}
}

// Revert discards working changes.
func (t *Tracked[T]) Revert() { t.current = t.baseline }

func fingerprint(v any) (uint64, error) {
	return hashstructure.Hash(v, hashstructure.FormatV2, &hashstructure.HashOptions{
		ZeroNil:     true,
		UseStringer: true,
	})
}
