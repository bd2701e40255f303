package matching

import "github.com/BLewisDesDev/chsp-transaction-mapper/internal/config"

// Defaults for the tunable matcher knobs. These mirror the documented
// configuration fallbacks; the receipt gate and boost are fixed policy.
const (
	DefaultHighThreshold   = 0.85
	DefaultMediumThreshold = 0.60
	DefaultLowThreshold    = 0.40

	DefaultNameThreshold   = 0.85
	DefaultAddressMinScore = 0.80

	receiptNameGate        = 0.60
	receiptSuburbThreshold = 0.80
	receiptSuburbBoost     = 0.15

	postReviewNameThreshold   = 0.75
	postReviewAddressMinScore = 0.70
	extractedPhoneScore       = 0.95
	propagatedEmailScore      = 0.90
)

// Options carries the tunable parameters of the matcher. Zero values are
// replaced with defaults by normalize, so an empty Options is usable.
type Options struct {
	Thresholds      Thresholds
	NameThreshold   float64
	AddressMinScore float64
	// Workers bounds the batch resolution pool. Zero means one worker
	// per CPU.
	Workers int
}

// DefaultOptions returns the documented default matcher configuration.
func DefaultOptions() Options {
	return Options{
		Thresholds: Thresholds{
			High:   DefaultHighThreshold,
			Medium: DefaultMediumThreshold,
			Low:    DefaultLowThreshold,
		},
		NameThreshold:   DefaultNameThreshold,
		AddressMinScore: DefaultAddressMinScore,
	}
}

// OptionsFromConfig maps the matching section of the application config
// onto matcher options. Unset values are already replaced with defaults, so
// callers can read individual knobs without going through a Matcher.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		Thresholds: Thresholds{
			High:   cfg.Matching.ConfidenceThresholds.High,
			Medium: cfg.Matching.ConfidenceThresholds.Medium,
			Low:    cfg.Matching.ConfidenceThresholds.Low,
		},
		NameThreshold:   cfg.Matching.FuzzyMatching.NameThreshold,
		AddressMinScore: cfg.Matching.AddressMatching.MinScore,
		Workers:         cfg.Matching.Workers,
	}.normalize()
}

func (o Options) normalize() Options {
	defaults := DefaultOptions()
	if o.Thresholds.High == 0 {
		o.Thresholds.High = defaults.Thresholds.High
	}
	if o.Thresholds.Medium == 0 {
		o.Thresholds.Medium = defaults.Thresholds.Medium
	}
	if o.Thresholds.Low == 0 {
		o.Thresholds.Low = defaults.Thresholds.Low
	}
	if o.NameThreshold == 0 {
		o.NameThreshold = defaults.NameThreshold
	}
	if o.AddressMinScore == 0 {
		o.AddressMinScore = defaults.AddressMinScore
	}
	return o
}
