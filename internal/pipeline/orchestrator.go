// Package pipeline implements the batch orchestrator: the
// per-request sequencing of parse → group-by-player → read prior state →
// extract features → write state → detect → feedback-loop → persist →
// respond.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/riftwatch/sentrytel/internal/config"
	"github.com/riftwatch/sentrytel/internal/detection"
	"github.com/riftwatch/sentrytel/internal/features"
	"github.com/riftwatch/sentrytel/internal/logging"
	"github.com/riftwatch/sentrytel/internal/metrics"
	"github.com/riftwatch/sentrytel/internal/models"
	"github.com/riftwatch/sentrytel/internal/store"
)

// Clock returns the current time as milliseconds since epoch. Exists so
// tests can substitute a fixed clock; production code uses SystemClock.
type Clock func() int64

// Orchestrator runs the four-stage pipeline: group by player, extract
// features, detect, and persist.
type Orchestrator struct {
	store    *store.Store
	detector *detection.Engine
	rules    config.RulesConfig
	parallel int
	clock    Clock
	metrics  *metrics.Metrics
}

// New constructs an Orchestrator. parallelPlayers bounds how many distinct
// players' read-compute-write sequences run concurrently within one
// request; 1 means strictly sequential. Parallelism across players is
// optional — a correct single-threaded implementation is equally valid.
func New(st *store.Store, rules config.RulesConfig, parallelPlayers int, clock Clock, m *metrics.Metrics) *Orchestrator {
	if parallelPlayers < 1 {
		parallelPlayers = 1
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Orchestrator{
		store:    st,
		detector: detection.NewEngine(),
		rules:    rules,
		parallel: parallelPlayers,
		clock:    clock,
		metrics:  m,
	}
}

// playerOutcome is the per-player result of the extract-and-persist stage.
type playerOutcome struct {
	playerID    string
	interesting []features.InterestingEvent
	features    models.PlayerFeatures
	err         error
}

// Run executes the full pipeline for one owner-scoped batch of events. An
// empty event list is a legal no-op that performs no store writes; callers
// are expected to have already
// short-circuited on len(events) == 0 if they want to skip calling Run
// entirely, but Run handles it correctly either way.
func (o *Orchestrator) Run(ctx context.Context, owner string, events []models.EventRecord) Summary {
	requestID := uuid.NewString()
	now := o.clock()
	log := logging.WithComponent("pipeline")

	summary := Summary{RequestID: requestID, EventsReceived: len(events)}
	if len(events) == 0 {
		return summary
	}

	byPlayer := groupByPlayer(events)
	outcomes := o.processPlayers(ctx, owner, now, byPlayer)

	var allInteresting []features.InterestingEvent
	var detections []models.DetectionRecord
	playersUpdated := 0

	for _, oc := range outcomes {
		if oc.err != nil {
			log.Error().Err(oc.err).Str("player_id", oc.playerID).Msg("player batch failed, skipping")
			continue
		}
		playersUpdated++
		allInteresting = append(allInteresting, oc.interesting...)

		dets := o.detector.Run(o.rules, owner, oc.playerID, oc.features, now)
		detections = append(detections, dets...)
	}

	allInteresting = applyFeedbackLoop(allInteresting, detections, byPlayer)

	ttlSeconds := now/1000 + int64(o.rules.EventTTLDays)*86400
	interestingEvents := make([]models.EventRecord, 0, len(allInteresting))
	for _, ie := range allInteresting {
		ev := ie.Event
		ev.InterestingReason = ie.Reason
		interestingEvents = append(interestingEvents, ev)
	}

	eventsResult := o.store.PutEventsBatch(ctx, interestingEvents, ttlSeconds)
	detectionsResult := o.store.PutDetectionsBatch(ctx, detections, ttlSeconds)

	summary.PlayersUpdated = playersUpdated
	summary.EventsStored = eventsResult.Stored
	summary.EventsSkipped = summary.EventsReceived - len(interestingEvents)
	summary.DetectionsCreated = detectionsResult.Stored

	if o.metrics != nil {
		o.metrics.ObserveBatch(summary.EventsReceived, summary.EventsStored, summary.EventsSkipped, summary.DetectionsCreated, playersUpdated)
	}

	return summary
}

// processPlayers extracts and persists features for every distinct player
// in the batch, optionally bounded-parallel.
func (o *Orchestrator) processPlayers(ctx context.Context, owner string, now int64, byPlayer map[string][]models.EventRecord) []playerOutcome {
	outcomes := make([]playerOutcome, len(byPlayer))
	playerIDs := make([]string, 0, len(byPlayer))
	for pid := range byPlayer {
		playerIDs = append(playerIDs, pid)
	}

	if o.parallel <= 1 {
		for i, pid := range playerIDs {
			outcomes[i] = o.processOnePlayer(ctx, owner, now, pid, byPlayer[pid])
		}
		return outcomes
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallel)
	for i, pid := range playerIDs {
		i, pid := i, pid
		g.Go(func() error {
			outcomes[i] = o.processOnePlayer(gctx, owner, now, pid, byPlayer[pid])
			return nil
		})
	}
	_ = g.Wait() // per-player errors are carried in playerOutcome.err, not propagated

	return outcomes
}

// processOnePlayer gets prior state, extracts features, computes the
// updated profile, and writes both back. A store failure at any point here
// is logged, and this player is skipped for the batch while the rest
// continue.
func (o *Orchestrator) processOnePlayer(ctx context.Context, owner string, now int64, playerID string, playerEvents []models.EventRecord) playerOutcome {
	priorFeatures, _, err := o.store.GetFeatures(ctx, owner, playerID)
	if err != nil {
		return playerOutcome{playerID: playerID, err: fmt.Errorf("get features: %w", err)}
	}
	priorProfile, hadProfile, err := o.store.GetProfile(ctx, owner, playerID)
	if err != nil {
		return playerOutcome{playerID: playerID, err: fmt.Errorf("get profile: %w", err)}
	}

	priorFeatures.Owner = owner
	priorFeatures.PlayerID = playerID
	result := features.Extract(o.rules, priorFeatures, playerEvents)
	result.Features.Owner = owner
	result.Features.PlayerID = playerID
	result.Features.UpdatedAt = now

	firstSeen := priorProfile.FirstSeen
	if !hadProfile || firstSeen == 0 {
		firstSeen = now
	}
	status := priorProfile.Status
	if status == "" {
		status = models.StatusMonitor
	}

	updatedProfile := models.PlayerProfile{
		Owner:      owner,
		PlayerID:   playerID,
		FirstSeen:  firstSeen,
		LastSeen:   now,
		EventCount: priorProfile.EventCount + int64(len(playerEvents)),
		RiskScore:  features.RiskScore(o.rules, result.Features),
		Status:     status,
	}

	if err := o.store.PutFeatures(ctx, result.Features); err != nil {
		return playerOutcome{playerID: playerID, err: fmt.Errorf("put features: %w", err)}
	}
	if err := o.store.PutProfile(ctx, updatedProfile); err != nil {
		return playerOutcome{playerID: playerID, err: fmt.Errorf("put profile: %w", err)}
	}

	return playerOutcome{playerID: playerID, interesting: result.Interesting, features: result.Features}
}

// groupByPlayer partitions a batch by playerId, preserving arrival order
// within each player's sub-batch.
func groupByPlayer(events []models.EventRecord) map[string][]models.EventRecord {
	byPlayer := make(map[string][]models.EventRecord)
	for _, ev := range events {
		byPlayer[ev.PlayerID] = append(byPlayer[ev.PlayerID], ev)
	}
	return byPlayer
}

// applyFeedbackLoop ensures that for every input event whose playerId
// appears in any detection, that event is marked interesting (using
// identity/eventId comparison to avoid duplicates).
func applyFeedbackLoop(interesting []features.InterestingEvent, detections []models.DetectionRecord, byPlayer map[string][]models.EventRecord) []features.InterestingEvent {
	if len(detections) == 0 {
		return interesting
	}

	flaggedPlayers := make(map[string]bool, len(detections))
	for _, d := range detections {
		flaggedPlayers[d.PlayerID] = true
	}

	alreadyInteresting := make(map[string]bool, len(interesting))
	for _, ie := range interesting {
		alreadyInteresting[ie.Event.EventID] = true
	}

	out := interesting
	for playerID := range flaggedPlayers {
		for _, ev := range byPlayer[playerID] {
			if alreadyInteresting[ev.EventID] {
				continue
			}
			out = append(out, features.InterestingEvent{Event: ev, Reason: "detection_feedback"})
			alreadyInteresting[ev.EventID] = true
		}
	}
	return out
}
