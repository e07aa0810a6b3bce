package models

// Decision is the aggregate policy outcome for one query. It drives which
// answer path produced the response text.
type Decision string

const (
	DecisionAllow            Decision = "ALLOW"
	DecisionRefuseInjection  Decision = "REFUSE_INJECTION"
	DecisionRefuseOffTopic   Decision = "REFUSE_OFF_TOPIC"
	DecisionRefuseAssignment Decision = "REFUSE_ASSIGNMENT"
	DecisionRefuseNoResults  Decision = "REFUSE_NO_RESULTS"
)

// Answer is the outcome of one query-answer cycle. Sources holds the
// identifiers of the chunks the answer was grounded on; it is empty for
// every refusal path.
type Answer struct {
	Decision Decision
	Text     string
	Sources  []string
}
