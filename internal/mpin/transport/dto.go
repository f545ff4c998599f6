// Package transport defines the request and response bodies of the MPIN API.
package transport

// EvaluateRequest is one candidate with its optional reference years.
type EvaluateRequest struct {
	MPIN        string `json:"mpin" validate:"max=32"`
	DOBSelf     string `json:"dobSelf,omitempty" validate:"max=16"`
	DOBSpouse   string `json:"dobSpouse,omitempty" validate:"max=16"`
	Anniversary string `json:"anniversary,omitempty" validate:"max=16"`
}

// EvaluateResponse is the verdict for one candidate. Reasons is never null.
type EvaluateResponse struct {
	Strength   string   `json:"strength"`
	Reasons    []string `json:"reasons"`
	GuessScore int      `json:"guessScore"`
}

// BatchEvaluateRequest carries the candidates of a batch evaluation.
type BatchEvaluateRequest struct {
	Items []EvaluateRequest `json:"items" validate:"required,min=1,dive"`
}

// BatchItemResult holds either a Result or an Error for one item.
type BatchItemResult struct {
	Index  int               `json:"index"`
	Result *EvaluateResponse `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
	Code   string            `json:"code,omitempty"`
}

// BatchEvaluateResponse lists item results in request order.
type BatchEvaluateResponse struct {
	Results []BatchItemResult `json:"results"`
}

// BlacklistResponse summarises the active blacklist without its entries.
type BlacklistResponse struct {
	Version   string `json:"version"`
	FourDigit int    `json:"fourDigit"`
	SixDigit  int    `json:"sixDigit"`
	MatchMode string `json:"matchMode"`
}
