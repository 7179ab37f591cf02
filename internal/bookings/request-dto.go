package bookings

// ReserveRequest is the body of POST /bookings.
type ReserveRequest struct {
	FlightID      string   `json:"flight_id" validate:"required,uuid"`
	Seats         []string `json:"seats_reserved" validate:"required,min=1,dive,required,max=8"`
	PaymentStatus string   `json:"payment_status" validate:"omitempty,oneof=pending paid failed"`
}
