package matching

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/registry"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/textutil"
)

// Matcher resolves transactions against a client registry using a strict
// strategy cascade. The registry snapshot is read-only, so one Matcher is
// safe for concurrent use across goroutines.
type Matcher struct {
	registry *registry.Registry
	opts     Options
	logger   *slog.Logger
}

// New constructs a Matcher. A nil logger falls back to a no-op logger.
func New(reg *registry.Registry, opts Options, logger *slog.Logger) *Matcher {
	return &Matcher{
		registry: reg,
		opts:     opts.normalize(),
		logger:   logging.NewComponentLogger(logger, "matcher"),
	}
}

// Options returns the normalized matcher options, including the
// confidence thresholds every report must band with.
func (m *Matcher) Options() Options {
	return m.opts
}

// Resolve matches a single transaction. Strategies run in priority order
// and the first match wins; a strategy whose required transaction field is
// absent is skipped rather than treated as a failure. No-match is a normal
// result, never an error.
func (m *Matcher) Resolve(tx Transaction) MatchResult {
	snapshot := m.registry.Current()

	strategies := []func(*registry.Snapshot, Transaction) (MatchResult, bool){
		m.resolveExactClientID,
		m.resolveExactEmail,
		m.resolveReceiptName,
		m.resolveFuzzyName,
		m.resolveAddress,
	}

	for _, strategy := range strategies {
		if result, ok := strategy(snapshot, tx); ok {
			result.Source = tx.Source()
			m.logger.Debug("transaction matched",
				logging.String("transaction_id", tx.ID),
				logging.String("client_id", result.ClientID),
				logging.String("method", string(result.Method)),
				logging.Float64("score", result.ConfidenceScore),
				logging.Bool("requires_review", result.RequiresReview),
			)
			return result
		}
	}

	m.logger.Debug("transaction unmatched", logging.String("transaction_id", tx.ID))
	return MatchResult{
		TransactionID:   tx.ID,
		ConfidenceScore: 0.0,
		Method:          MethodNoMatch,
		Source:          tx.Source(),
		IsMatched:       false,
		RequiresReview:  true,
	}
}

// ResolveBatch resolves every transaction independently over a bounded
// worker pool and returns results in input order, one per transaction.
// The context cancels remaining work between transactions; a single
// Resolve always runs to completion.
func (m *Matcher) ResolveBatch(ctx context.Context, txs []Transaction) ([]MatchResult, error) {
	results := make([]MatchResult, len(txs))

	workers := m.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := range txs {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			results[i] = m.Resolve(txs[i])
			return nil
		})
	}
	// Launched workers write into results, so they must drain before the
	// slice escapes, even on cancellation.
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *Matcher) resolveExactClientID(snapshot *registry.Snapshot, tx Transaction) (MatchResult, bool) {
	if tx.ClientIdentifier == "" {
		return MatchResult{}, false
	}
	clientID := snapshot.FindByPlatformIdentifier(tx.Platform, tx.ClientIdentifier)
	if clientID == "" {
		return MatchResult{}, false
	}
	return MatchResult{
		TransactionID:   tx.ID,
		ClientID:        clientID,
		ConfidenceScore: 1.0,
		Method:          MethodExactClientID,
		Details:         Details{MatchedIdentifier: tx.ClientIdentifier},
		IsMatched:       true,
		RequiresReview:  false,
	}, true
}

func (m *Matcher) resolveExactEmail(snapshot *registry.Snapshot, tx Transaction) (MatchResult, bool) {
	if strings.TrimSpace(tx.Email) == "" {
		return MatchResult{}, false
	}
	clientID := snapshot.FindByEmail(tx.Email)
	if clientID == "" {
		return MatchResult{}, false
	}
	return MatchResult{
		TransactionID:   tx.ID,
		ClientID:        clientID,
		ConfidenceScore: 1.0,
		Method:          MethodExactEmail,
		Details:         Details{MatchedEmail: tx.Email},
		IsMatched:       true,
		RequiresReview:  false,
	}, true
}

// resolveReceiptName handles the manual-entry platform: the importer has
// already extracted a name (and usually a suburb) into metadata, so the
// comparison is whole-string against each client's full name, with a fixed
// boost when the suburb corroborates the name.
func (m *Matcher) resolveReceiptName(snapshot *registry.Snapshot, tx Transaction) (MatchResult, bool) {
	if tx.Platform != PlatformPaperReceipt {
		return MatchResult{}, false
	}
	name := strings.ToLower(strings.TrimSpace(tx.Metadata[MetaClientName]))
	if name == "" {
		return MatchResult{}, false
	}
	suburb := strings.ToLower(strings.TrimSpace(tx.Metadata[MetaClientSuburb]))

	var best MatchResult
	found := false

	for _, id := range snapshot.ClientIDs() {
		client := snapshot.Client(id)
		fullName := strings.ToLower(client.FullName())
		if fullName == "" {
			continue
		}

		nameScore := textutil.Ratio(name, fullName)
		if nameScore < receiptNameGate {
			continue
		}

		score := nameScore
		suburbScore := 0.0
		boost := 0.0
		if suburb != "" && client.Location.Suburb != "" {
			suburbScore = textutil.Ratio(suburb, strings.ToLower(client.Location.Suburb))
			if suburbScore >= receiptSuburbThreshold {
				boost = receiptSuburbBoost
				score = nameScore + boost
				if score > 1.0 {
					score = 1.0
				}
			}
		}

		if score < m.opts.NameThreshold {
			continue
		}
		if found && score <= best.ConfidenceScore {
			continue
		}

		best = MatchResult{
			TransactionID:   tx.ID,
			ClientID:        id,
			ConfidenceScore: score,
			Method:          MethodReceiptName,
			Details: Details{
				MatchedName: client.FullName(),
				NameScore:   nameScore,
				SuburbScore: suburbScore,
				SuburbBoost: boost,
			},
			IsMatched: true,
		}
		found = true
	}

	if !found {
		return MatchResult{}, false
	}
	best.RequiresReview = m.opts.Thresholds.RequiresReview(best.Method, best.ConfidenceScore)
	return best, true
}

func (m *Matcher) resolveFuzzyName(snapshot *registry.Snapshot, tx Transaction) (MatchResult, bool) {
	description := strings.ToLower(strings.TrimSpace(tx.Description))
	if description == "" {
		return MatchResult{}, false
	}

	var best MatchResult
	found := false

	for _, id := range snapshot.ClientIDs() {
		fullName := strings.ToLower(snapshot.Client(id).FullName())
		if fullName == "" {
			continue
		}

		var score float64
		if strings.Contains(description, fullName) {
			score = 1.0
		} else {
			score = textutil.PartialRatio(fullName, description)
		}

		if score < m.opts.NameThreshold {
			continue
		}
		if found && score <= best.ConfidenceScore {
			continue
		}

		best = MatchResult{
			TransactionID:   tx.ID,
			ClientID:        id,
			ConfidenceScore: score,
			Method:          MethodFuzzyName,
			Details: Details{
				MatchedName: snapshot.Client(id).FullName(),
				NameScore:   score,
			},
			IsMatched: true,
		}
		found = true
	}

	if !found {
		return MatchResult{}, false
	}
	best.RequiresReview = m.opts.Thresholds.RequiresReview(best.Method, best.ConfidenceScore)
	return best, true
}

func (m *Matcher) resolveAddress(snapshot *registry.Snapshot, tx Transaction) (MatchResult, bool) {
	match, ok := snapshot.FindByAddress(tx.Description, m.opts.AddressMinScore)
	if !ok {
		return MatchResult{}, false
	}
	return MatchResult{
		TransactionID:   tx.ID,
		ClientID:        match.ClientID,
		ConfidenceScore: match.Score,
		Method:          MethodAddress,
		Details:         Details{Address: &match},
		IsMatched:       true,
		RequiresReview:  m.opts.Thresholds.RequiresReview(MethodAddress, match.Score),
	}, true
}
