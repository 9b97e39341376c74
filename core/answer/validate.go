package answer

import (
	"strconv"
	"strings"
)

// Type tags the kind of question an answer belongs to.
type Type string

const (
	TypeExact          Type = "exact"
	TypeNumeric        Type = "numeric"
	TypeMultipleChoice Type = "multiple_choice"
	TypeShortAnswer    Type = "short_answer"
	TypeLongAnswer     Type = "long_answer"
	TypeExpression     Type = "expression"
	TypeTrueFalse      Type = "true_false"
	TypeFillBlank      Type = "fill_blank"
	TypeMatching       Type = "matching"
)

// Types lists every supported answer type.
var Types = []Type{
	TypeExact, TypeNumeric, TypeMultipleChoice, TypeShortAnswer, TypeLongAnswer,
	TypeExpression, TypeTrueFalse, TypeFillBlank, TypeMatching,
}

func (t Type) IsValid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// MatchType records which equivalence rule produced a verdict, for audit and
// UI feedback.
type MatchType string

const (
	MatchExact         MatchType = "exact"
	MatchFraction      MatchType = "fraction"
	MatchPercentage    MatchType = "percentage"
	MatchScientific    MatchType = "scientific"
	MatchMixedNumber   MatchType = "mixed_number"
	MatchNumeric       MatchType = "numeric"
	MatchExpression    MatchType = "expression"
	MatchAlternate     MatchType = "alternate"
	MatchManualGrading MatchType = "manual_grading_required"
	MatchNone          MatchType = "none"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Spec is the variant-dependent correct-answer specification. It is a closed
// sum: one variant per answer Type, so dispatch is exhaustive by construction.
type Spec interface {
	isAnswerSpec()
}

type (
	// ExactSpec matches by normalized string equality plus alternates.
	ExactSpec struct {
		Alternates []string `json:"alternates,omitempty"`
	}

	// NumericSpec expects a computed numeric result.
	NumericSpec struct {
		Tolerance        *float64 `json:"tolerance,omitempty"` // overrides the magnitude tolerance band
		Unit             string   `json:"unit,omitempty"`
		AllowExpressions bool     `json:"allow_expressions,omitempty"`
	}

	// MultipleChoiceSpec matches the submitted choice index.
	MultipleChoiceSpec struct {
		Choices      []string `json:"choices"`
		CorrectIndex int      `json:"correct_index"`
	}

	// ShortAnswerSpec runs the full math-equivalence ladder with alternates.
	ShortAnswerSpec struct {
		Alternates []string `json:"alternates,omitempty"`
	}

	// LongAnswerSpec always routes to manual grading.
	LongAnswerSpec struct{}

	// ExpressionSpec compares algebraic expressions by point sampling.
	ExpressionSpec struct {
		Alternates []string `json:"alternates,omitempty"`
	}

	// TrueFalseSpec accepts only the strict "true"/"false" tokens.
	TrueFalseSpec struct {
		Value bool `json:"value"`
	}

	// FillBlankSpec pairs delimiter-separated sub-answers with blanks.
	FillBlankSpec struct {
		Blanks []Blank `json:"blanks"`
	}

	// MatchingSpec compares an ordered list of right-side indices.
	MatchingSpec struct {
		Pairs          []MatchPair `json:"pairs"`
		CorrectMatches []int       `json:"correct_matches"`
	}
)

type Blank struct {
	Value      string   `json:"value"`
	Alternates []string `json:"alternates,omitempty"`
}

type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

func (ExactSpec) isAnswerSpec()          {}
func (NumericSpec) isAnswerSpec()        {}
func (MultipleChoiceSpec) isAnswerSpec() {}
func (ShortAnswerSpec) isAnswerSpec()    {}
func (LongAnswerSpec) isAnswerSpec()     {}
func (ExpressionSpec) isAnswerSpec()     {}
func (TrueFalseSpec) isAnswerSpec()      {}
func (FillBlankSpec) isAnswerSpec()      {}
func (MatchingSpec) isAnswerSpec()       {}

// Result is the engine's verdict. The caller must treat IsCorrect as the sole
// source of truth and never a client-asserted flag.
type Result struct {
	IsCorrect  bool       `json:"is_correct"`
	MatchType  MatchType  `json:"match_type"`
	Confidence Confidence `json:"confidence"`

	// fill-blank detail
	BlanksCorrect int    `json:"blanks_correct,omitempty"`
	BlanksTotal   int    `json:"blanks_total,omitempty"`
	Blanks        []bool `json:"blanks,omitempty"`

	// matching detail for partial-credit UI
	MatchesCorrect int    `json:"matches_correct,omitempty"`
	MatchesTotal   int    `json:"matches_total,omitempty"`
	Matches        []bool `json:"matches,omitempty"`
}

// blankDelimiters are the accepted separators between fill-blank sub-answers.
const blankDelimiters = ",;|"

// Validate grades a student answer against the correct answer for the given
// answer type. It is deterministic and total: any unparseable input resolves
// to an incorrect Result, never an error.
func (c *Checker) Validate(studentAnswer, correctAnswer string, t Type, spec Spec) Result {
	switch sp := spec.(type) {
	case NumericSpec:
		return c.validateNumeric(studentAnswer, correctAnswer, sp)

	case MultipleChoiceSpec:
		return c.validateMultipleChoice(studentAnswer, sp)

	case TrueFalseSpec:
		return c.validateTrueFalse(studentAnswer, correctAnswer, sp)

	case FillBlankSpec:
		return c.ValidateFillBlank(splitBlanks(studentAnswer), sp.Blanks)

	case MatchingSpec:
		return c.ValidateMatching(parseIndexList(studentAnswer), sp.CorrectMatches)

	case LongAnswerSpec:
		return Result{IsCorrect: false, MatchType: MatchManualGrading, Confidence: ConfidenceLow}

	case ExactSpec:
		return c.validateExact(studentAnswer, correctAnswer, sp.Alternates)

	case ShortAnswerSpec:
		return c.validateMath(studentAnswer, correctAnswer, sp.Alternates)

	case ExpressionSpec:
		return c.validateMath(studentAnswer, correctAnswer, sp.Alternates)
	}

	// nil or unknown spec: fall back on the answer type alone
	switch t {
	case TypeLongAnswer:
		return Result{IsCorrect: false, MatchType: MatchManualGrading, Confidence: ConfidenceLow}
	case TypeNumeric:
		return c.validateNumeric(studentAnswer, correctAnswer, NumericSpec{})
	case TypeExact:
		return c.validateExact(studentAnswer, correctAnswer, nil)
	default:
		return c.validateMath(studentAnswer, correctAnswer, nil)
	}
}

func (c *Checker) validateNumeric(student, correct string, spec NumericSpec) Result {
	expected, _, ok := parseNumericLoose(correct)
	if !ok {
		// unparseable correct answer: fall back on the generic ladder
		return c.validateMath(student, correct, nil)
	}
	if ns := Normalize(student); ns != "" && ns == Normalize(correct) {
		return newResult(true, MatchExact)
	}
	match, mt := c.compareNumeric(student, expected, NumericOptions{
		Tolerance:        spec.Tolerance,
		AllowExpressions: spec.AllowExpressions,
	})
	return newResult(match, mt)
}

func (c *Checker) validateExact(student, correct string, alternates []string) Result {
	ns := Normalize(student)
	if ns != "" && ns == Normalize(correct) {
		return newResult(true, MatchExact)
	}
	for _, alt := range alternates {
		if nalt := Normalize(alt); nalt != "" && nalt == ns {
			return newResult(true, MatchAlternate)
		}
	}
	return newResult(false, MatchNone)
}

func (c *Checker) validateMath(student, correct string, alternates []string) Result {
	match, mt := c.compareMath(student, correct, alternates)
	return newResult(match, mt)
}

// validateMultipleChoice requires the submission to parse as the correct
// integer index; any non-integer input is simply incorrect.
func (c *Checker) validateMultipleChoice(student string, spec MultipleChoiceSpec) Result {
	idx, err := strconv.Atoi(strings.TrimSpace(SanitizeInput(student)))
	if err != nil {
		return newResult(false, MatchNone)
	}
	return newResult(idx == spec.CorrectIndex, MatchExact)
}

// validateTrueFalse accepts only the exact tokens "true"/"false";
// abbreviations like "t" are rejected.
func (c *Checker) validateTrueFalse(student, correct string, spec TrueFalseSpec) Result {
	token := strings.ToLower(strings.TrimSpace(SanitizeInput(student)))
	if token != "true" && token != "false" {
		return newResult(false, MatchNone)
	}
	want := spec.Value
	if correct != "" {
		want = strings.EqualFold(strings.TrimSpace(correct), "true")
	}
	return newResult((token == "true") == want, MatchExact)
}

// ValidateFillBlank pairs submitted sub-answers positionally with blanks and
// grades each with the math-equivalence ladder. Fewer submissions than blanks
// is never an error: unmatched blanks count as incorrect.
func (c *Checker) ValidateFillBlank(answers []string, blanks []Blank) Result {
	res := Result{
		MatchType:   MatchNone,
		BlanksTotal: len(blanks),
		Blanks:      make([]bool, len(blanks)),
	}
	for i, blank := range blanks {
		if i >= len(answers) {
			break
		}
		if c.CompareMathAnswers(answers[i], blank.Value, blank.Alternates...) {
			res.Blanks[i] = true
			res.BlanksCorrect++
		}
	}
	res.IsCorrect = res.BlanksTotal > 0 && res.BlanksCorrect == res.BlanksTotal
	if res.IsCorrect {
		res.MatchType = MatchExact
	}
	res.Confidence = confidenceFor(res.IsCorrect, res.MatchType)
	return res
}

// ValidateMatching compares an ordered list of right-side indices per
// position and returns per-position detail for partial-credit UI.
func (c *Checker) ValidateMatching(submitted, correct []int) Result {
	res := Result{
		MatchType:    MatchNone,
		MatchesTotal: len(correct),
		Matches:      make([]bool, len(correct)),
	}
	for i := range correct {
		if i < len(submitted) && submitted[i] == correct[i] {
			res.Matches[i] = true
			res.MatchesCorrect++
		}
	}
	res.IsCorrect = res.MatchesTotal > 0 && res.MatchesCorrect == res.MatchesTotal
	if res.IsCorrect {
		res.MatchType = MatchExact
	}
	res.Confidence = confidenceFor(res.IsCorrect, res.MatchType)
	return res
}

func splitBlanks(s string) []string {
	s = SanitizeInput(s)
	s = strings.ReplaceAll(s, ";", ",")
	s = strings.ReplaceAll(s, "|", ",")
	parts := strings.Split(s, ",") // keep empty segments so positions line up
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseIndexList(s string) []int {
	parts := splitBlanks(s)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return nil // malformed list grades as all-wrong, never errors
		}
		out = append(out, idx)
	}
	return out
}

func newResult(correct bool, mt MatchType) Result {
	if !correct && mt != MatchManualGrading {
		mt = MatchNone
	}
	return Result{IsCorrect: correct, MatchType: mt, Confidence: confidenceFor(correct, mt)}
}

func confidenceFor(correct bool, mt MatchType) Confidence {
	if !correct {
		return ConfidenceLow
	}
	switch mt {
	case MatchNumeric, MatchExpression:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}
