package contract

// Specialist is a named group of capabilities plus a responsibility
// description the router uses to pick a delegation target.
type Specialist string

const (
	SpecialistAccounts Specialist = "accounts"
	SpecialistSecurity Specialist = "security"
	SpecialistAdvisor  Specialist = "advisor"
	SpecialistGeneral  Specialist = "general"
)

// Charters maps each specialist to the responsibility text shown to the
// router. The router sees responsibilities, never capability lists.
var Charters = map[Specialist]string{
	SpecialistAccounts: "Account Data Retrieval Specialist: balances, account lists, recent transactions, credit card details.",
	SpecialistSecurity: "Card and Account Security Officer: blocking cards, changing transaction limits, toggling international usage.",
	SpecialistAdvisor:  "Certified Financial Playbook Advisor: official guidance on saving, investment, debt and retirement.",
	SpecialistGeneral:  "General conversation: greetings, small talk, and anything that does not need banking data or actions.",
}

// SpecialistOrder fixes the order charters are rendered into prompts.
var SpecialistOrder = []Specialist{
	SpecialistAccounts,
	SpecialistSecurity,
	SpecialistAdvisor,
	SpecialistGeneral,
}

func KnownSpecialist(s Specialist) bool {
	_, ok := Charters[s]
	return ok
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is one inbound conversation turn. Model selects the backing
// language model for every invocation within the turn.
type TurnRequest struct {
	Text    string    `json:"message"`
	History []Message `json:"history,omitempty"`
	Model   string    `json:"model,omitempty"`
}

type DecisionKind string

const (
	DecisionDirect   DecisionKind = "direct_answer"
	DecisionDelegate DecisionKind = "delegate"
	DecisionUnknown  DecisionKind = "unknown"
)

// RoutingDecision is the router's structured verdict for one turn.
// Exactly one of Response (direct) or Specialist (delegate) is meaningful.
type RoutingDecision struct {
	Kind       DecisionKind `json:"decision"`
	Response   string       `json:"response,omitempty"`
	Specialist Specialist   `json:"specialist,omitempty"`
}

type ParamType string

const (
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamString  ParamType = "string"
)

type ParamSpec struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
}

// CapabilitySpec is the model-facing description of one capability.
type CapabilitySpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params,omitempty"`
}

// Dispatch is the dispatcher's structured verdict: one capability name and
// its argument mapping.
type Dispatch struct {
	Capability string         `json:"capability"`
	Arguments  map[string]any `json:"arguments,omitempty"`
}

// Outcome is a capability's typed result. Err non-empty means the handler
// caught an internal fault and describes it; the pipeline treats both
// variants as normal data.
type Outcome struct {
	Text string `json:"text,omitempty"`
	Err  string `json:"error,omitempty"`
}

func Ok(text string) Outcome     { return Outcome{Text: text} }
func Fail(reason string) Outcome { return Outcome{Err: reason} }

func (o Outcome) Failed() bool { return o.Err != "" }

// Render flattens the outcome into the string fed to the synthesizer.
func (o Outcome) Render() string {
	if o.Failed() {
		return o.Err
	}
	return o.Text
}

type TurnStatus string

const (
	TurnCompleted TurnStatus = "completed"
	TurnDegraded  TurnStatus = "degraded"
	TurnFailed    TurnStatus = "failed"
)

// TraceRecord is the audit log of one turn, forwarded to the notifier after
// the reply is decided. Diagnostic detail lives here and in logs, never in
// the user-facing reply.
type TraceRecord struct {
	TurnID     string         `json:"turn_id"`
	Input      string         `json:"input"`
	Decision   DecisionKind   `json:"decision,omitempty"`
	Specialist Specialist     `json:"specialist,omitempty"`
	Capability string         `json:"capability,omitempty"`
	Arguments  map[string]any `json:"arguments,omitempty"`
	RawOutcome string         `json:"raw_outcome,omitempty"`
	FinalText  string         `json:"final_text"`
	History    []Message      `json:"history,omitempty"`
	Status     TurnStatus     `json:"status"`
	Detail     string         `json:"detail,omitempty"`
}
