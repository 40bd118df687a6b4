package script

import (
	"fmt"

	"github.com/longbridgeapp/opencc"
)

// OpenCC is the production Normalizer, backed by the OpenCC conversion
// dictionaries.
type OpenCC struct {
	toSimplified  *opencc.OpenCC
	toTraditional *opencc.OpenCC
}

func NewOpenCC() (*OpenCC, error) {
	toSimplified, err := opencc.New("t2s")
	if err != nil {
		return nil, fmt.Errorf("load t2s conversion: %w", err)
	}
	toTraditional, err := opencc.New("s2t")
	if err != nil {
		return nil, fmt.Errorf("load s2t conversion: %w", err)
	}
	return &OpenCC{
		toSimplified:  toSimplified,
		toTraditional: toTraditional,
	}, nil
}

func (o *OpenCC) ToSimplified(text string) string {
	converted, err := o.toSimplified.Convert(text)
	if err != nil {
		return text
	}
	return converted
}

func (o *OpenCC) ToTraditional(text string) string {
	converted, err := o.toTraditional.Convert(text)
	if err != nil {
		return text
	}
	return converted
}
