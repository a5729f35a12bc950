package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
)

type PaymentOption string

const (
	PaymentCash       PaymentOption = "cash"
	PaymentElectronic PaymentOption = "electronic"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	PaymentOption PaymentOption `json:"payment_option"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository holds bookings created by the payment-option action.
// Several bookings per user are allowed; confirmation always targets the
// user's first booking in insertion order.
type BookingRepository interface {
	Create(ctx context.Context, userID string, option PaymentOption) (Booking, error)
	// SetConfirmation overwrites the status of the user's first booking with
	// Confirmed or Cancelled. Repeated calls are not idempotent: the last wins.
	SetConfirmation(ctx context.Context, userID string, confirmed bool) (Booking, error)
	List(ctx context.Context) ([]Booking, error)
}

type MemoryBookingRepository struct {
	mu       sync.Mutex
	bookings []Booking
	seq      int
	now      func() time.Time
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{now: time.Now}
}

func (r *MemoryBookingRepository) Create(_ context.Context, userID string, option PaymentOption) (Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	b := Booking{
		ID:            fmt.Sprintf("BK-%04d", r.seq),
		UserID:        userID,
		PaymentOption: option,
		Status:        BookingPending,
		CreatedAt:     r.now().UTC(),
	}
	r.bookings = append(r.bookings, b)
	return b, nil
}

func (r *MemoryBookingRepository) SetConfirmation(_ context.Context, userID string, confirmed bool) (Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.bookings {
		if r.bookings[i].UserID != userID {
			continue
		}
		if confirmed {
			r.bookings[i].Status = BookingConfirmed
		} else {
			r.bookings[i].Status = BookingCancelled
		}
		return r.bookings[i], nil
	}
	return Booking{}, ErrBookingNotFound
}

func (r *MemoryBookingRepository) List(_ context.Context) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Booking, len(r.bookings))
	copy(out, r.bookings)
	return out, nil
}

// Seed appends bookings as-is, for fixtures.
func (r *MemoryBookingRepository) Seed(bookings ...Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, bookings...)
	r.seq += len(bookings)
}

var _ BookingRepository = (*MemoryBookingRepository)(nil)

// ===================================
// Booking actions
// ===================================

type SelectPaymentOptionInput struct {
	UserID        actions.FlexString `json:"user_id"`
	PaymentOption string             `json:"payment_option"`
}

func SelectPaymentOption(repo BookingRepository) actions.Action {
	return actions.New(ToolSelectPaymentOption,
		"Record the customer's chosen payment option and open a pending booking.",
		[]actions.Param{
			{Name: "user_id", Type: schema.String, Desc: "The customer's identifier (their WhatsApp number).", Required: true},
			{Name: "payment_option", Type: schema.String, Desc: "How the customer will pay.", Required: true, Enum: []string{string(PaymentCash), string(PaymentElectronic)}},
		},
		func(ctx context.Context, in SelectPaymentOptionInput) (any, error) {
			if in.UserID == "" {
				return nil, fmt.Errorf("user_id is required")
			}
			option := PaymentOption(strings.ToLower(strings.TrimSpace(in.PaymentOption)))
			if option != PaymentCash && option != PaymentElectronic {
				return nil, fmt.Errorf("payment_option must be %q or %q, got %q", PaymentCash, PaymentElectronic, in.PaymentOption)
			}
			b, err := repo.Create(ctx, string(in.UserID), option)
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Booking %s created for user %s with %s payment. Status: %s.", b.ID, b.UserID, b.PaymentOption, b.Status), nil
		},
	)
}

type ConfirmBookingInput struct {
	UserID       actions.FlexString `json:"user_id"`
	Confirmation actions.FlexBool   `json:"confirmation"`
}

func ConfirmBooking(repo BookingRepository) actions.Action {
	return actions.New(ToolConfirmBooking,
		"Confirm or cancel the customer's pending booking.",
		[]actions.Param{
			{Name: "user_id", Type: schema.String, Desc: "The customer's identifier (their WhatsApp number).", Required: true},
			{Name: "confirmation", Type: schema.Boolean, Desc: "true to confirm the booking, false to cancel it.", Required: true},
		},
		func(ctx context.Context, in ConfirmBookingInput) (any, error) {
			if in.UserID == "" {
				return nil, fmt.Errorf("user_id is required")
			}
			b, err := repo.SetConfirmation(ctx, string(in.UserID), bool(in.Confirmation))
			if errors.Is(err, ErrBookingNotFound) {
				return fmt.Sprintf("No booking found for user %s.", in.UserID), nil
			}
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Booking %s for user %s is now %s.", b.ID, b.UserID, b.Status), nil
		},
	)
}
