package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Pricing is the USD price per million prompt and completion tokens.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Cost is the USD spend of one model call.
type Cost struct {
	Input  float64
	Output float64
	Total  float64
}

// Known chat models. Dated snapshots such as gpt-4o-mini-2024-07-18 resolve
// through the longest matching prefix.
var pricingTable = map[string]Pricing{
	"gpt-3.5-turbo":         {InputPerM: 0.50, OutputPerM: 1.50},
	"gpt-4o-mini":           {InputPerM: 0.15, OutputPerM: 0.60},
	"gpt-4o":                {InputPerM: 2.50, OutputPerM: 10.00},
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
}

// ResolvePricing looks up model, falling back to the longest known prefix.
// ok is false for unknown models, which are billed at zero.
func ResolvePricing(model string) (p Pricing, ok bool) {
	model = strings.ToLower(strings.TrimSpace(model))
	if p, ok = pricingTable[model]; ok {
		return p, true
	}
	best := ""
	for name := range pricingTable {
		if strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return Pricing{}, false
	}
	return pricingTable[best], true
}

// Of prices one call's token usage.
func (p Pricing) Of(usage *schema.TokenUsage) Cost {
	if usage == nil {
		return Cost{}
	}
	c := Cost{
		Input:  p.InputPerM * float64(usage.PromptTokens) / 1e6,
		Output: p.OutputPerM * float64(usage.CompletionTokens) / 1e6,
	}
	c.Total = c.Input + c.Output
	return c
}
