package editor

// SectionKey names one independently tracked part of the editor.
type SectionKey string

const (
	SectionHeader   SectionKey = "header"
	SectionDetails  SectionKey = "details"
	SectionTerms    SectionKey = "terms"
	SectionExpenses SectionKey = "expenses"
)

// Section is a part of the editor with its own baseline. Reset is called
// with a new token after every successful save and must make the section's
// current state its baseline.
type Section interface {
	Key() SectionKey
	Dirty() bool
	Reset(token uint64)
}

// ValueSection is a Section over a single tracked value.
type ValueSection[T any] struct {
	*Tracked[T]
	key     SectionKey
	token   uint64
	onReset func(T)
}

// NewValueSection tracks initial under key.
func NewValueSection[T any](key SectionKey, initial T) *ValueSection[T] {
	return &ValueSection[T]{Tracked: NewTracked(initial), key: key}
}

// OnReset registers fn to run after the section re-baselines.
func (s *ValueSection[T]) OnReset(fn func(T)) { s.onReset = fn }

func (s *ValueSection[T]) Key() SectionKey { return s.key }

// Token returns the reset token last observed.
func (s *ValueSection[T]) Token() uint64 { return s.token }

func (s *ValueSection[T]) Reset(token uint64) {
	if token == s.token {
		return
	}
	s.token = token
	s.Rebaseline()
	if s.onReset != nil {
		s.onReset(s.Current())
	}
}
