package rhythm

// NoteView is the presentation's view of an active note.
type NoteView struct {
	Lane             int
	TimeToHit        float64 // negative once the start has passed
	Sustain          float64
	SustainRemaining float64
	Hit              bool
}

// Snapshot is a read-only copy of the session for one frame of drawing.
type Snapshot struct {
	State     State
	Now       float64
	Score     int
	Combo     int
	Health    float64
	MaxHealth float64
	Progress  float64 // 0..1 through the chart
	MissFlash [Lanes]float64
	Notes     []NoteView
	Stats     Stats
}

// Snapshot fills a snapshot, reusing buf for the note views so a frame
// loop can draw without allocating.
func (s *Session) Snapshot(buf []NoteView) Snapshot {
	views := buf[:0]
	for _, n := range s.notes {
		if !n.Active {
			continue
		}
		remaining := n.Sustain
		if n.Hit {
			remaining = max(n.End()-s.now, 0)
		}
		views = append(views, NoteView{
			Lane:             n.Lane,
			TimeToHit:        n.Start - s.now,
			Sustain:          n.Sustain,
			SustainRemaining: remaining,
			Hit:              n.Hit,
		})
	}

	var progress float64
	if s.endTime > 0 {
		progress = min(max(s.now/s.endTime, 0), 1)
	}

	return Snapshot{
		State:     s.state,
		Now:       s.now,
		Score:     s.Score(),
		Combo:     s.combo,
		Health:    s.health,
		MaxHealth: s.rules.MaxHealth,
		Progress:  progress,
		MissFlash: s.flashes,
		Notes:     views,
		Stats:     s.stats,
	}
}
