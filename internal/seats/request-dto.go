package seats

// QuoteRequest carries a client's current selection and an optional seat to toggle.
type QuoteRequest struct {
	Seats  []string `json:"seats" validate:"omitempty,max=64,dive,required,max=8"`
	Toggle string   `json:"toggle" validate:"omitempty,max=8"`
}
