package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
)

func invoke(t *testing.T, a actions.Action, args string) string {
	t.Helper()
	out, err := a.Invoke(context.Background(), args)
	require.NoError(t, err)
	return actions.Render(out)
}

func TestProcessPayment(t *testing.T) {
	out := invoke(t, ProcessPayment(), `{"amount": 100, "currency": "USD", "method": "credit card"}`)
	assert.Equal(t, "Payment of 100 USD processed using credit card.", out)

	_, err := ProcessPayment().Invoke(context.Background(), `{"currency": "USD"}`)
	assert.Error(t, err)
}

func TestCheckPaymentStatus(t *testing.T) {
	out := invoke(t, CheckPaymentStatus(), `{"transaction_id": "TX-42"}`)
	assert.Equal(t, "Payment status for transaction ID TX-42 is: completed.", out)
}

func TestProvidePaymentInstructions(t *testing.T) {
	assert.Contains(t, invoke(t, ProvidePaymentInstructions(), `{"method": "Bank Transfer"}`), "Bank XYZ")
	assert.Equal(t, "No instructions available for this payment method.",
		invoke(t, ProvidePaymentInstructions(), `{"method": "barter"}`))
}

func TestGetContactInfo(t *testing.T) {
	assert.Equal(t, "Finance Department: Contact finance at finance@eastc.org",
		invoke(t, GetContactInfo(), `{"department": "finance"}`))
	assert.Equal(t, "Department Not Found: No contact info for library.",
		invoke(t, GetContactInfo(), `{"department": "library"}`))
}

func TestStorytellingActions(t *testing.T) {
	assert.Contains(t, invoke(t, WhatIsOnaStories(), ""), "Ona Stories is a storytelling platform")

	var contact map[string]string
	require.NoError(t, json.Unmarshal([]byte(invoke(t, ProvideContactAndLocation(), "{}")), &contact))
	assert.Equal(t, "contact@onastories.com", contact["email"])

	works := invoke(t, ProvideSampleWorks(), "{}")
	assert.Equal(t,
		"Utanzania ni nini: An insightful exploration into Tanzanian identity and culture.\n"+
			"The Story of Dala Dala Documentation: A documentary uncovering the history and culture of Tanzania's iconic Dala Dala transportation.\n"+
			"Singeli Music Documentary: A vibrant exploration of Singeli music and its impact on Tanzanian youth culture.\n"+
			"More Works: For additional projects, please visit our website at www.onastories.com.",
		works)
}

func TestListFillingStations(t *testing.T) {
	all := invoke(t, ListFillingStations(), "{}")
	assert.Contains(t, all, "Ubungo Energy Point")
	assert.Contains(t, all, "Nyamagana Petrol Station")

	arusha := invoke(t, ListFillingStations(), `{"region": "arusha"}`)
	assert.Equal(t, "Kisongo Service Station: Dodoma Rd, Kisongo, Arusha (open 06:00-22:00)", arusha)

	assert.Equal(t, "No filling stations found in Dodoma.", invoke(t, ListFillingStations(), `{"region": "Dodoma"}`))
}

func TestTickets(t *testing.T) {
	list := invoke(t, ListTicketTypes(), "")
	assert.Contains(t, list, "VIP: TZS 50,000")
	assert.Contains(t, list, "VVIP: TZS 100,000")

	assert.Equal(t, "VVIP tickets are sold out.", invoke(t, CheckTicketAvailability(), `{"ticket_type": "vvip"}`))
	assert.Equal(t, "Regular tickets are available: 850 remaining at TZS 20,000.",
		invoke(t, CheckTicketAvailability(), `{"ticket_type": "Regular"}`))
	assert.Contains(t, invoke(t, CheckTicketAvailability(), `{"ticket_type": "Gold"}`), "not found")
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "999", groupThousands(999))
	assert.Equal(t, "1,000", groupThousands(1000))
	assert.Equal(t, "100,000", groupThousands(100000))
	assert.Equal(t, "1,234,567", groupThousands(1234567))
}

func TestSelectPaymentOptionCreatesPendingBooking(t *testing.T) {
	repo := NewMemoryBookingRepository()
	out := invoke(t, SelectPaymentOption(repo), `{"user_id": 255700000001, "payment_option": "Electronic"}`)
	assert.Equal(t, "Booking BK-0001 created for user 255700000001 with electronic payment. Status: Pending.", out)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, PaymentElectronic, list[0].PaymentOption)

	_, err = SelectPaymentOption(repo).Invoke(context.Background(), `{"user_id": "1", "payment_option": "cheque"}`)
	assert.Error(t, err)
}

func TestConfirmBookingTargetsFirstBookingOfUser(t *testing.T) {
	repo := NewMemoryBookingRepository()
	repo.Seed(
		Booking{ID: "BK-0001", UserID: "3", PaymentOption: PaymentCash, Status: BookingPending},
		Booking{ID: "BK-0002", UserID: "7", PaymentOption: PaymentCash, Status: BookingPending},
		Booking{ID: "BK-0003", UserID: "7", PaymentOption: PaymentElectronic, Status: BookingPending},
	)
	confirm := ConfirmBooking(repo)

	assert.Equal(t, "Booking BK-0002 for user 7 is now Confirmed.", invoke(t, confirm, `{"user_id": 7, "confirmation": true}`))

	list, _ := repo.List(context.Background())
	assert.Equal(t, BookingPending, list[0].Status)
	assert.Equal(t, BookingConfirmed, list[1].Status)
	assert.Equal(t, BookingPending, list[2].Status)

	assert.Equal(t, "Booking BK-0002 for user 7 is now Cancelled.", invoke(t, confirm, `{"user_id": "7", "confirmation": "no"}`))
	list, _ = repo.List(context.Background())
	assert.Equal(t, BookingCancelled, list[1].Status)

	assert.Equal(t, "No booking found for user 9.", invoke(t, confirm, `{"user_id": "9", "confirmation": true}`))
}

func TestRegisterUserCallsRegistrationService(t *testing.T) {
	var got registrationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	users := NewMemoryUserRepository()
	out := invoke(t, RegisterUser(users, NewHTTPRegistrar(srv.URL)), `{"phone_number": "255700000001", "car_plate_no": "t123abc"}`)

	assert.Equal(t, registrationRequest{PhoneNumber: "255700000001", CarPlateNo: "T123ABC"}, got)
	assert.Contains(t, out, "registered successfully")
	assert.Contains(t, out, `{"status":"ok"}`)

	u, ok, err := users.Get(context.Background(), "255700000001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "T123ABC", u.CarPlateNo)
}

func TestRegisterUserServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	users := NewMemoryUserRepository()
	_, err := RegisterUser(users, NewHTTPRegistrar(srv.URL)).Invoke(context.Background(), `{"phone_number": "1", "car_plate_no": "X"}`)
	require.Error(t, err)
	assert.Equal(t, errx.KindUpstreamUnavailable, errx.KindOf(err))

	_, ok, _ := users.Get(context.Background(), "1")
	assert.False(t, ok)
}

func TestRegisterUserWithoutRegistrar(t *testing.T) {
	out := invoke(t, RegisterUser(NewMemoryUserRepository(), nil), `{"phone_number": 2557, "car_plate_no": "abc"}`)
	assert.Equal(t, "User with phone number 2557 and car plate ABC registered successfully.", out)
}
