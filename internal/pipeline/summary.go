package pipeline

// Summary is the result of one Orchestrator.Run invocation, matching the
// gateway's success response shape minus the processingTimeMs field (added
// by the caller, which has start-time visibility the pipeline itself does
// not need).
type Summary struct {
	RequestID         string
	EventsReceived    int
	EventsStored      int
	EventsSkipped     int
	PlayersUpdated    int
	DetectionsCreated int
}
