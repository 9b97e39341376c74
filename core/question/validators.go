package question

import (
	"github.com/go-playground/validator/v10"

	"github.com/oscardef/tutorassist/core"
	"github.com/oscardef/tutorassist/core/answer"
)

var (
	answerTypeTag  = "answertype"
	answerTypeText = "invalid answer type"
)

func init() {
	_ = core.Validate.RegisterValidation(answerTypeTag, answerTypeValidation)
	core.RegisterCustomTranslation(answerTypeTag, answerTypeText)
}

// answerTypeValidation checks that the provided answer type is a known one.
func answerTypeValidation(fl validator.FieldLevel) bool {
	return answer.Type(fl.Field().String()).IsValid()
}
