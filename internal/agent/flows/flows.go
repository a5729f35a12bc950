// Package flows defines the business-purpose configurations a deployment can
// run. Each flow pairs one system prompt with its own action registry; flows
// are selected once and never merged.
package flows

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/tools"
)

type ID string

const (
	Storytelling ID = "storytelling"
	GasStation   ID = "gas_station"
	Ticketing    ID = "ticketing"
)

// IDs lists the known flows, default first.
var IDs = []ID{Storytelling, GasStation, Ticketing}

//go:embed template/system.txt
var systemTemplate string

//go:embed template/storytelling.txt
var storytellingInstructions string

//go:embed template/gas_station.txt
var gasStationInstructions string

//go:embed template/ticketing.txt
var ticketingInstructions string

// Flow is one tagged variant: instructions plus the closed action set.
type Flow struct {
	ID           ID
	Instructions string
	Registry     *actions.Registry
}

// Deps carries the repositories and collaborators the stateful actions need.
type Deps struct {
	Bookings  tools.BookingRepository
	Users     tools.UserRepository
	Registrar tools.Registrar
}

// ParseID maps a configured flow name onto an ID. Empty selects the default.
func ParseID(s string) (ID, error) {
	v := ID(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return Storytelling, nil
	}
	for _, id := range IDs {
		if v == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown flow %q", s)
}

// Build assembles the flow's registry. Missing repositories are replaced by
// fresh in-memory ones.
func Build(id ID, deps Deps) (*Flow, error) {
	if deps.Bookings == nil {
		deps.Bookings = tools.NewMemoryBookingRepository()
	}
	if deps.Users == nil {
		deps.Users = tools.NewMemoryUserRepository()
	}

	switch id {
	case Storytelling:
		return &Flow{
			ID:           id,
			Instructions: storytellingInstructions,
			Registry: actions.NewRegistry(
				tools.WhatIsOnaStories(),
				tools.ProvideContactAndLocation(),
				tools.ProvideSampleWorks(),
			),
		}, nil
	case GasStation:
		return &Flow{
			ID:           id,
			Instructions: gasStationInstructions,
			Registry: actions.NewRegistry(
				tools.RegisterUser(deps.Users, deps.Registrar),
				tools.ListFillingStations(),
				tools.GetContactInfo(),
				tools.SelectPaymentOption(deps.Bookings),
				tools.ConfirmBooking(deps.Bookings),
				tools.ProcessPayment(),
				tools.CheckPaymentStatus(),
				tools.ProvidePaymentInstructions(),
			),
		}, nil
	case Ticketing:
		return &Flow{
			ID:           id,
			Instructions: ticketingInstructions,
			Registry: actions.NewRegistry(
				tools.ListTicketTypes(),
				tools.CheckTicketAvailability(),
				tools.SelectPaymentOption(deps.Bookings),
				tools.ConfirmBooking(deps.Bookings),
				tools.ProcessPayment(),
				tools.CheckPaymentStatus(),
				tools.ProvidePaymentInstructions(),
			),
		}, nil
	}
	return nil, fmt.Errorf("unknown flow %q", id)
}

// RenderSystem renders the system message for a client through the eino
// prompt component so prompt callbacks fire.
func (f *Flow) RenderSystem(ctx context.Context, name string) (*schema.Message, error) {
	tpl := prompt.FromMessages(schema.GoTemplate, schema.SystemMessage(strings.TrimSpace(systemTemplate)))
	msgs, err := tpl.Format(ctx, map[string]any{
		"Name":         name,
		"Instructions": strings.TrimSpace(f.Instructions),
	})
	if err != nil {
		return nil, fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0], nil
}
