package tokens

import (
	"github.com/pkoukk/tiktoken-go"

	"privacy-governor/internal/domain/ports/adapter"
)

var _ adapter.TokenCounter = (*Estimator)(nil)

// Estimator counts tokens with the cl100k_base BPE used by current chat
// models. When the encoding cannot be loaded it falls back to the
// four-bytes-per-token rule of thumb rather than failing the audit path.
type Estimator struct {
	enc *tiktoken.Tiktoken
}

func NewEstimator() *Estimator {
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		return &Estimator{}
	}
	return &Estimator{enc: enc}
}

func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	if e.enc == nil {
		return (len(text) + 3) / 4
	}
	return len(e.enc.Encode(text, nil, nil))
}
