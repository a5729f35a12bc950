package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
)

var departmentContacts = map[string]actions.Entry{
	"admissions": {Title: "Admissions Office", Description: "Contact admissions at admissions@eastc.org"},
	"finance":    {Title: "Finance Department", Description: "Contact finance at finance@eastc.org"},
	"support":    {Title: "Customer Support", Description: "Call +255 700 000 111 or write to support@eastc.org"},
}

type ContactInfoInput struct {
	Department string `json:"department"`
}

func GetContactInfo() actions.Action {
	return actions.New(ToolGetContactInfo,
		"Provide contact information for a department.",
		[]actions.Param{
			{Name: "department", Type: schema.String, Desc: "The specific department to get contact info for (e.g., 'admissions', 'finance', 'support').", Required: true},
		},
		func(_ context.Context, in ContactInfoInput) (any, error) {
			if e, ok := departmentContacts[strings.ToLower(strings.TrimSpace(in.Department))]; ok {
				return e, nil
			}
			return actions.Entry{
				Title:       "Department Not Found",
				Description: fmt.Sprintf("No contact info for %s.", in.Department),
			}, nil
		},
	)
}
