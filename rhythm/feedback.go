package rhythm

// FeedbackKind is a judgment outcome worth showing.
type FeedbackKind int

const (
	FeedbackHit FeedbackKind = iota
	FeedbackMiss
	FeedbackSustain
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackHit:
		return "hit"
	case FeedbackMiss:
		return "miss"
	case FeedbackSustain:
		return "sustain"
	default:
		return "unknown"
	}
}

// FeedbackSink receives judgment outcomes. Nothing in the session depends on
// what the sink does with them.
type FeedbackSink interface {
	Feedback(kind FeedbackKind, lane int)
}

// FeedbackFunc adapts a function to FeedbackSink.
type FeedbackFunc func(kind FeedbackKind, lane int)

func (f FeedbackFunc) Feedback(kind FeedbackKind, lane int) { f(kind, lane) }

type nopSink struct{}

func (nopSink) Feedback(FeedbackKind, int) {}
