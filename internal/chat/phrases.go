package chat

import "math/rand"

var encouragements = []string{
	"Gobez neh!",
	"Betam konjo!",
	"Wayz ena!",
	"Dehna neh?",
	"Abate!",
}

// PhrasePicker hands out encouraging Amharic phrases. The random source is
// injected so tests can pin the choice.
type PhrasePicker struct {
	rng *rand.Rand
}

// NewPhrasePicker constructs a picker over the given source.
func NewPhrasePicker(rng *rand.Rand) *PhrasePicker {
	return &PhrasePicker{rng: rng}
}

// Pick returns one phrase.
func (p *PhrasePicker) Pick() string {
	if p == nil || p.rng == nil {
		return encouragements[0]
	}
	return encouragements[p.rng.Intn(len(encouragements))]
}
