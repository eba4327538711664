package rhythm

import (
	"errors"
	"fmt"
)

// Rules holds the judgment tuning. Times are in seconds.
type Rules struct {
	HitWindow    float64 // accepted distance between press and note start
	GracePeriod  float64 // tail after the last note end before the song is won
	MissPenalty  float64 // score lost on a late miss or ghost press
	HitBase      float64
	ComboBonus   float64 // extra score per combo step already held
	HealthStep   float64 // health gained per hit and lost per miss
	StartHealth  float64
	MaxHealth    float64
	SustainRate  float64 // score per second of a held sustain
	TapThreshold float64 // hit notes shorter than this resolve immediately
	MissFlash    float64 // lane marker time after a late miss
	GhostFlash   float64 // lane marker time after a ghost press
}

// DefaultRules returns the stock tuning.
func DefaultRules() Rules {
	return Rules{
		HitWindow:    0.110,
		GracePeriod:  3.0,
		MissPenalty:  50,
		HitBase:      100,
		ComboBonus:   10,
		HealthStep:   5,
		StartHealth:  50,
		MaxHealth:    100,
		SustainRate:  100,
		TapThreshold: 0.1,
		MissFlash:    0.2,
		GhostFlash:   0.3,
	}
}

// Validate reports tuning that would make a session meaningless.
func (r Rules) Validate() error {
	var errs []error
	if r.HitWindow <= 0 {
		errs = append(errs, fmt.Errorf("hit window must be positive, got %v", r.HitWindow))
	}
	if r.GracePeriod < 0 {
		errs = append(errs, fmt.Errorf("grace period must be non-negative, got %v", r.GracePeriod))
	}
	if r.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("max health must be positive, got %v", r.MaxHealth))
	}
	if r.StartHealth <= 0 || r.StartHealth > r.MaxHealth {
		errs = append(errs, fmt.Errorf("start health must be in (0, %v], got %v", r.MaxHealth, r.StartHealth))
	}
	return errors.Join(errs...)
}
