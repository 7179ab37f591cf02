package bookings

// Status of a booking. Only confirmed bookings occupy seats.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

func (s Status) IsActive() bool {
	return s == StatusConfirmed
}

// PaymentStatus is supplied by the caller and stored as given.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// OrDefault returns pending for an empty status.
func (p PaymentStatus) OrDefault() PaymentStatus {
	if p == "" {
		return PaymentPending
	}
	return p
}
