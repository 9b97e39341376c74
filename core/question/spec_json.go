package question

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/oscardef/tutorassist/core/answer"
)

// specJSON is the stored shape of every answer.Spec variant. One flat envelope
// keeps the column schema stable across answer types; absent fields are
// omitted so each stored spec only carries its own variant's data.
type specJSON struct {
	Alternates       []string    `json:"alternates,omitempty"`
	Tolerance        *float64    `json:"tolerance,omitempty"`
	Unit             string      `json:"unit,omitempty"`
	AllowExpressions bool        `json:"allow_expressions,omitempty"`
	Choices          []string    `json:"choices,omitempty"`
	CorrectIndex     int         `json:"correct_index,omitempty"`
	Value            bool        `json:"value,omitempty"`
	Blanks           []blankJSON `json:"blanks,omitempty"`
	Pairs            []pairJSON  `json:"pairs,omitempty"`
	CorrectMatches   []int       `json:"correct_matches,omitempty"`
}

type blankJSON struct {
	Value      string   `json:"value"`
	Alternates []string `json:"alternates,omitempty"`
}

type pairJSON struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// EncodeSpec serializes an answer spec for storage. A nil spec encodes as nil
// so questions graded on type alone store no spec at all.
func EncodeSpec(spec answer.Spec) ([]byte, error) {
	if spec == nil {
		return nil, nil
	}

	var sj specJSON
	switch sp := spec.(type) {
	case answer.ExactSpec:
		sj.Alternates = sp.Alternates
	case answer.NumericSpec:
		sj.Tolerance = sp.Tolerance
		sj.Unit = sp.Unit
		sj.AllowExpressions = sp.AllowExpressions
	case answer.MultipleChoiceSpec:
		sj.Choices = sp.Choices
		sj.CorrectIndex = sp.CorrectIndex
	case answer.ShortAnswerSpec:
		sj.Alternates = sp.Alternates
	case answer.LongAnswerSpec:
		// no data
	case answer.ExpressionSpec:
		sj.Alternates = sp.Alternates
	case answer.TrueFalseSpec:
		sj.Value = sp.Value
	case answer.FillBlankSpec:
		sj.Blanks = make([]blankJSON, len(sp.Blanks))
		for i, b := range sp.Blanks {
			sj.Blanks[i] = blankJSON{Value: b.Value, Alternates: b.Alternates}
		}
	case answer.MatchingSpec:
		sj.Pairs = make([]pairJSON, len(sp.Pairs))
		for i, p := range sp.Pairs {
			sj.Pairs[i] = pairJSON{Left: p.Left, Right: p.Right}
		}
		sj.CorrectMatches = sp.CorrectMatches
	default:
		return nil, errors.Errorf("unknown answer spec %T", spec)
	}

	data, err := json.Marshal(sj)
	return data, errors.Wrap(err, "encoding answer spec")
}

// DecodeSpec deserializes a stored spec for the given answer type. Empty data
// yields a nil spec; grading then falls back on the answer type alone.
func DecodeSpec(t answer.Type, data []byte) (answer.Spec, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var sj specJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return nil, errors.Wrap(err, "decoding answer spec")
	}

	switch t {
	case answer.TypeExact:
		return answer.ExactSpec{Alternates: sj.Alternates}, nil
	case answer.TypeNumeric:
		return answer.NumericSpec{
			Tolerance:        sj.Tolerance,
			Unit:             sj.Unit,
			AllowExpressions: sj.AllowExpressions,
		}, nil
	case answer.TypeMultipleChoice:
		return answer.MultipleChoiceSpec{Choices: sj.Choices, CorrectIndex: sj.CorrectIndex}, nil
	case answer.TypeShortAnswer:
		return answer.ShortAnswerSpec{Alternates: sj.Alternates}, nil
	case answer.TypeLongAnswer:
		return answer.LongAnswerSpec{}, nil
	case answer.TypeExpression:
		return answer.ExpressionSpec{Alternates: sj.Alternates}, nil
	case answer.TypeTrueFalse:
		return answer.TrueFalseSpec{Value: sj.Value}, nil
	case answer.TypeFillBlank:
		blanks := make([]answer.Blank, len(sj.Blanks))
		for i, b := range sj.Blanks {
			blanks[i] = answer.Blank{Value: b.Value, Alternates: b.Alternates}
		}
		return answer.FillBlankSpec{Blanks: blanks}, nil
	case answer.TypeMatching:
		pairs := make([]answer.MatchPair, len(sj.Pairs))
		for i, p := range sj.Pairs {
			pairs[i] = answer.MatchPair{Left: p.Left, Right: p.Right}
		}
		return answer.MatchingSpec{Pairs: pairs, CorrectMatches: sj.CorrectMatches}, nil
	}
	return nil, errors.Errorf("unknown answer type %q", t)
}
