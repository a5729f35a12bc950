package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
)

type TicketType struct {
	Name      string
	PriceTZS  int
	Remaining int
	Perks     string
}

var MockTicketTypes = []TicketType{
	{Name: "Regular", PriceTZS: 20000, Remaining: 850, Perks: "General admission"},
	{Name: "VIP", PriceTZS: 50000, Remaining: 120, Perks: "Reserved seating and fast-track entry"},
	{Name: "VVIP", PriceTZS: 100000, Remaining: 0, Perks: "Backstage lounge, meet and greet"},
}

func ListTicketTypes() actions.Action {
	return actions.New(ToolListTicketTypes,
		"List the ticket types for CHEKA TU with their prices and perks.",
		nil,
		func(context.Context, actions.NoArgs) (any, error) {
			out := make([]actions.Entry, 0, len(MockTicketTypes))
			for _, t := range MockTicketTypes {
				out = append(out, actions.Entry{
					Title:       t.Name,
					Description: fmt.Sprintf("TZS %s - %s", groupThousands(t.PriceTZS), t.Perks),
				})
			}
			return out, nil
		},
	)
}

type TicketAvailabilityInput struct {
	TicketType string `json:"ticket_type"`
}

func CheckTicketAvailability() actions.Action {
	return actions.New(ToolCheckTicketAvailability,
		"Check how many tickets of a given type are still available.",
		[]actions.Param{
			{Name: "ticket_type", Type: schema.String, Desc: "Ticket type, e.g. 'Regular', 'VIP', 'VVIP'.", Required: true},
		},
		func(_ context.Context, in TicketAvailabilityInput) (any, error) {
			for _, t := range MockTicketTypes {
				if !strings.EqualFold(t.Name, strings.TrimSpace(in.TicketType)) {
					continue
				}
				if t.Remaining == 0 {
					return fmt.Sprintf("%s tickets are sold out.", t.Name), nil
				}
				return fmt.Sprintf("%s tickets are available: %d remaining at TZS %s.", t.Name, t.Remaining, groupThousands(t.PriceTZS)), nil
			}
			return fmt.Sprintf("Ticket type %s not found. Available types: Regular, VIP, VVIP.", in.TicketType), nil
		},
	)
}

// groupThousands formats 50000 as "50,000".
func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
