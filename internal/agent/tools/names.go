// Package tools implements the mock business actions the flows expose: payment
// simulation, contact lookup, registration, bookings, station and ticket
// listings, and the storytelling catalogue.
package tools

import "github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"

const (
	ToolProcessPayment             actions.Name = "process_payment"
	ToolCheckPaymentStatus         actions.Name = "check_payment_status"
	ToolProvidePaymentInstructions actions.Name = "provide_payment_instructions"
	ToolGetContactInfo             actions.Name = "get_contact_info"
	ToolRegisterUser               actions.Name = "register_user"
	ToolListFillingStations        actions.Name = "list_filling_stations"
	ToolSelectPaymentOption        actions.Name = "select_payment_option"
	ToolConfirmBooking             actions.Name = "confirm_booking"
	ToolListTicketTypes            actions.Name = "list_ticket_types"
	ToolCheckTicketAvailability    actions.Name = "check_ticket_availability"
	ToolWhatIsOnaStories           actions.Name = "what_is_ona_stories"
	ToolProvideContactAndLocation  actions.Name = "provide_contact_and_location"
	ToolProvideSampleWorks         actions.Name = "provide_sample_works"
)
