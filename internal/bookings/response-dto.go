package bookings

import "time"

type BookingResponse struct {
	ID            string        `json:"id"`
	BookingRef    string        `json:"booking_ref"`
	UserID        string        `json:"user_id"`
	FlightID      string        `json:"flight_id"`
	Seats         []string      `json:"seats_reserved"`
	TotalPrice    float64       `json:"total_price"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Status        Status        `json:"status"`
	BookingTime   time.Time     `json:"booking_time"`
}

// ErrorBody goes in the errors field of a failed booking response.
type ErrorBody struct {
	Error            Kind     `json:"error"`
	Message          string   `json:"message,omitempty"`
	ConflictingSeats []string `json:"conflicting_seats,omitempty"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		BookingRef:    b.BookingRef,
		UserID:        b.UserID.String(),
		FlightID:      b.FlightID.String(),
		Seats:         b.Seats,
		TotalPrice:    b.TotalPrice,
		PaymentStatus: b.PaymentStatus,
		Status:        b.Status,
		BookingTime:   b.BookingTime,
	}
}

func ToBookingResponses(list []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, ToBookingResponse(&list[i]))
	}
	return out
}

func ToErrorBody(err *Error) ErrorBody {
	body := ErrorBody{Error: err.Kind, ConflictingSeats: err.ConflictingSeats}
	if err.Err != nil {
		body.Message = err.Err.Error()
	}
	return body
}
