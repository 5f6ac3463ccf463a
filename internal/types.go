package internal

import "strconv"

type DocumentFormat string

const (
	FormatPDF   DocumentFormat = "pdf"
	FormatHTML  DocumentFormat = "html"
	FormatPlain DocumentFormat = "text"
	FormatEML   DocumentFormat = "eml"
)

type ValueKind string

const (
	ValueText   ValueKind = "text"
	ValueDate   ValueKind = "date"
	ValueAmount ValueKind = "amount"
	ValueInt    ValueKind = "int"
)

// FieldValue is the canonical form of one extracted field. Text carries
// text, date and identifier values; Amount and Number carry numeric kinds.
type FieldValue struct {
	Kind   ValueKind
	Text   string
	Amount float64
	Number int
	Raw    string
}

func (v FieldValue) String() string {
	switch v.Kind {
	case ValueAmount:
		return strconv.FormatFloat(v.Amount, 'f', -1, 64)
	case ValueInt:
		return strconv.Itoa(v.Number)
	default:
		return v.Text
	}
}

// JSONValue returns the payload representation: numeric kinds stay numbers
// so the parse output keeps the types downstream consumers expect.
func (v FieldValue) JSONValue() any {
	switch v.Kind {
	case ValueAmount:
		return v.Amount
	case ValueInt:
		return v.Number
	default:
		return v.Text
	}
}

type FieldMap map[string]FieldValue

// FieldMapFromPayload rebuilds a FieldMap from a decoded JSON data object,
// as produced by the parse command. JSON numbers arrive as float64; whole
// values in the model-year range are treated as ints.
func FieldMapFromPayload(data map[string]any) FieldMap {
	out := FieldMap{}
	for key, raw := range data {
		switch t := raw.(type) {
		case string:
			if t == "" {
				continue
			}
			out[key] = FieldValue{Kind: ValueText, Text: t}
		case float64:
			if t == float64(int(t)) && t >= 0 && t <= 9999 {
				out[key] = FieldValue{Kind: ValueInt, Number: int(t)}
			} else {
				out[key] = FieldValue{Kind: ValueAmount, Amount: t}
			}
		case int:
			out[key] = FieldValue{Kind: ValueInt, Number: t}
		}
	}
	return out
}

type FieldStatus string

const (
	FieldExtracted FieldStatus = "EXTRACTED"
	FieldUnmapped  FieldStatus = "UNMAPPED"
	FieldMissing   FieldStatus = "MISSING"
	FieldNoOption  FieldStatus = "NO_OPTION"
)

type FillStrategy string

const (
	StrategyInput        FillStrategy = "input"
	StrategySelect       FillStrategy = "select"
	StrategySelectSearch FillStrategy = "select_search"
	StrategyAutocomplete FillStrategy = "autocomplete"
)

// Selector tells the form driver where a field lives on the page.
type Selector struct {
	By    string `json:"by" yaml:"by"`
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

// FillPlanEntry is one immutable fill instruction. Execution state lives
// with the driver, never on the entry.
type FillPlanEntry struct {
	Key       string       `json:"key"`
	Tab       string       `json:"tab"`
	Value     string       `json:"value"`
	Strategy  FillStrategy `json:"strategy"`
	DependsOn []string     `json:"dependsOn,omitempty"`
	Selector  *Selector    `json:"selector,omitempty"`
}

type FillPlan []FillPlanEntry

// Keys returns the plan's field keys in execution order.
func (p FillPlan) Keys() []string {
	out := make([]string, 0, len(p))
	for _, e := range p {
		out = append(out, e.Key)
	}
	return out
}

type DocumentRow struct {
	ID         int
	Source     string
	ExternalID string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	Format     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type FieldExportRow struct {
	FieldKey    string
	Tab         string
	RawText     *string
	Value       *string
	MappedValue *string
	Status      FieldStatus
	Strategy    FillStrategy
	PlanIndex   *int
}

func StringPtr(v string) *string { return &v }

func IntPtr(v int) *int { return &v }
