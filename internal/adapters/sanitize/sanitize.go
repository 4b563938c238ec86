package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// Strict strips every tag and attribute, leaving plain text.
type Strict struct {
	policy *bluemonday.Policy
}

func NewStrict() *Strict {
	return &Strict{policy: bluemonday.StrictPolicy()}
}

func (s *Strict) Strip(text string) string {
	return s.policy.Sanitize(text)
}
