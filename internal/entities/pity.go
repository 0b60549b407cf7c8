package entities

// ContentType keys pity counters: each kind of content tracks its own
// dry-run streak with its own threshold.
type ContentType string

// Content types with pity protection
const (
	ContentTasks       ContentType = "tasks"
	ContentDungeons    ContentType = "dungeons"
	ContentMissions    ContentType = "missions"
	ContentExpeditions ContentType = "expeditions"
)

// Valid reports whether c is a known content type
func (c ContentType) Valid() bool {
	switch c {
	case ContentTasks, ContentDungeons, ContentMissions, ContentExpeditions:
		return true
	}
	return false
}

// PityCounters tracks consecutive dry runs per content type for one
// character. Counters are non-negative; a counter resets to zero
// exactly when a roll under that content type yields a kept drop.
type PityCounters map[ContentType]int

// Clone returns an independent copy; the zero map clones to an empty
// usable map.
func (p PityCounters) Clone() PityCounters {
	out := make(PityCounters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
