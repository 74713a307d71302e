package audithook

// Action constants for audit events.
const (
	// Ledger actions
	ActionTransfer   = "ledger.transfer"
	ActionApproval   = "ledger.approval"
	ActionFeeUpdated = "ledger.fee_updated"

	// Governance actions
	ActionVotingStarted = "governance.voting_started"
	ActionVoteCast      = "governance.vote_cast"
	ActionVotingEnded   = "governance.voting_ended"

	// Market actions
	ActionTokensPurchased = "market.tokens_purchased"
	ActionTokensSold      = "market.tokens_sold"

	// Persistence actions
	ActionEventsFlushed = "journal.flushed"
	ActionSnapshotSaved = "snapshot.saved"
)

// Resource constants for audit events.
const (
	ResourceAccount  = "account"
	ResourceSession  = "session"
	ResourceTrade    = "trade"
	ResourceJournal  = "journal"
	ResourceSnapshot = "snapshot"
)

// Category constants for audit events.
const (
	CategoryLedger      = "ledger"
	CategoryGovernance  = "governance"
	CategoryMarket      = "market"
	CategoryPersistence = "persistence"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
