package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
)

type FillingStation struct {
	Name    string
	Region  string
	Address string
	Hours   string
}

var MockFillingStations = []FillingStation{
	{Name: "Ubungo Energy Point", Region: "Dar es Salaam", Address: "Morogoro Rd, Ubungo", Hours: "24 hours"},
	{Name: "Mikocheni Fuel Hub", Region: "Dar es Salaam", Address: "Old Bagamoyo Rd, Mikocheni", Hours: "06:00-23:00"},
	{Name: "Kisongo Service Station", Region: "Arusha", Address: "Dodoma Rd, Kisongo", Hours: "06:00-22:00"},
	{Name: "Nyamagana Petrol Station", Region: "Mwanza", Address: "Kenyatta Rd, Nyamagana", Hours: "24 hours"},
}

type ListFillingStationsInput struct {
	Region string `json:"region,omitempty"`
}

func ListFillingStations() actions.Action {
	return actions.New(ToolListFillingStations,
		"List partner filling stations, optionally filtered by region.",
		[]actions.Param{
			{Name: "region", Type: schema.String, Desc: "Optional region or city, e.g. 'Dar es Salaam', 'Arusha'."},
		},
		func(_ context.Context, in ListFillingStationsInput) (any, error) {
			region := strings.TrimSpace(in.Region)
			var out []actions.Entry
			for _, s := range MockFillingStations {
				if region != "" && !strings.EqualFold(s.Region, region) {
					continue
				}
				out = append(out, actions.Entry{
					Title:       s.Name,
					Description: fmt.Sprintf("%s, %s (open %s)", s.Address, s.Region, s.Hours),
				})
			}
			if len(out) == 0 {
				return fmt.Sprintf("No filling stations found in %s.", region), nil
			}
			return out, nil
		},
	)
}
