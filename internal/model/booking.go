package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingRefunded   BookingStatus = "refunded"
)

// Cancellable reports whether a customer may still cancel the booking.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPending || s == BookingConfirmed
}

// PaymentStatus tracks whether a booking has been paid.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// LineStatus is the state of a single booked service.
type LineStatus string

const (
	LinePending    LineStatus = "pending"
	LineAssigned   LineStatus = "assigned"
	LineConfirmed  LineStatus = "confirmed"
	LineInProgress LineStatus = "in_progress"
	LineCompleted  LineStatus = "completed"
	LineCancelled  LineStatus = "cancelled"
)

// Address is where the work takes place.
type Address struct {
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Canton     string `json:"canton,omitempty"`
}

// Booking is a customer's request for one or more services.
type Booking struct {
	ID                   string           `json:"id"`
	CustomerID           string           `json:"customer_id"`
	Reference            string           `json:"booking_reference"`
	Status               BookingStatus    `json:"status"`
	CustomerEmail        string           `json:"customer_email"`
	CustomerPhone        string           `json:"customer_phone"`
	CustomerAddress      Address          `json:"customer_address"`
	PreferredDate        string           `json:"preferred_date"`
	PreferredTime        string           `json:"preferred_time"`
	GeneralNotes         string           `json:"general_notes"`
	TotalAmount          Money            `json:"total_amount_chf"`
	PaymentStatus        PaymentStatus    `json:"payment_status"`
	ConfirmationDeadline *time.Time       `json:"confirmation_deadline"`
	ConfirmedAt          *time.Time       `json:"confirmed_at"`
	CancelledAt          *time.Time       `json:"cancelled_at"`
	CancellationReason   string           `json:"cancellation_reason,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
	Services             []BookingService `json:"booking_services"`
	Payments             []Payment        `json:"payments"`
}

// BookingService is one service line item attached to a booking, with its own schedule.
type BookingService struct {
	ID                    string     `json:"id"`
	BookingID             string     `json:"booking_id"`
	Position              int        `json:"position"`
	ServiceID             string     `json:"service_id"`
	ProviderID            *string    `json:"provider_id"`
	ScheduledDate         *string    `json:"scheduled_date"`
	ScheduledTime         *string    `json:"scheduled_time"`
	ServiceNotes          string     `json:"service_notes"`
	RecurringInterval     *string    `json:"recurring_interval"`
	RecurringIntervalDays *int       `json:"recurring_interval_days"`
	Price                 Money      `json:"price_chf"`
	Status                LineStatus `json:"status"`
	CreatedAt             time.Time  `json:"created_at"`
	Service               *Service   `json:"services,omitempty"`
	Provider              *Provider  `json:"providers,omitempty"`
}

// Payment is a read-only payment record attached to a booking.
type Payment struct {
	ID            string     `json:"id"`
	BookingID     string     `json:"booking_id"`
	Amount        Money      `json:"amount_chf"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	PaidAt        *time.Time `json:"paid_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Review is a customer's rating of a completed booking.
type Review struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"booking_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
