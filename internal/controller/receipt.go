package controller

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/yildizm/pagekit/internal/common"
)

// Receipt records one accepted submission
type Receipt struct {
	ID     string                    `json:"id"`
	Values map[common.FieldID]string `json:"values"`
	At     time.Duration             `json:"at"`
}

var (
	strictPolicy     *bluemonday.Policy
	strictPolicyOnce sync.Once
)

func sanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func newReceipt(values map[common.FieldID]string, at time.Duration) Receipt {
	p := sanitizer()
	clean := make(map[common.FieldID]string, len(values))
	for k, v := range values {
		clean[k] = p.Sanitize(v)
	}
	return Receipt{ID: uuid.NewString(), Values: clean, At: at}
}
