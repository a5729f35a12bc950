package tools

import (
	"context"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
)

const onaStoriesAbout = "Ona Stories is a storytelling platform focused on creating immersive, engaging, and impactful stories " +
	"that connect people and foster understanding. We specialize in interactive stories that highlight cultural, " +
	"social, and personal narratives in a unique and memorable way."

var onaContact = map[string]string{
	"phone":    "+1234567890",
	"email":    "contact@onastories.com",
	"location": "123 Storyteller Lane, Fiction City, FC 45678",
}

var onaSampleWorks = []actions.Entry{
	{Title: "Utanzania ni nini", Description: "An insightful exploration into Tanzanian identity and culture."},
	{Title: "The Story of Dala Dala Documentation", Description: "A documentary uncovering the history and culture of Tanzania's iconic Dala Dala transportation."},
	{Title: "Singeli Music Documentary", Description: "A vibrant exploration of Singeli music and its impact on Tanzanian youth culture."},
	{Title: "More Works", Description: "For additional projects, please visit our website at www.onastories.com."},
}

func WhatIsOnaStories() actions.Action {
	return actions.New(ToolWhatIsOnaStories,
		"Explain what Ona Stories is and what it does.",
		nil,
		func(context.Context, actions.NoArgs) (any, error) {
			return onaStoriesAbout, nil
		},
	)
}

func ProvideContactAndLocation() actions.Action {
	return actions.New(ToolProvideContactAndLocation,
		"Provide Ona Stories contact details and physical location.",
		nil,
		func(context.Context, actions.NoArgs) (any, error) {
			out := make(map[string]string, len(onaContact))
			for k, v := range onaContact {
				out[k] = v
			}
			return out, nil
		},
	)
}

func ProvideSampleWorks() actions.Action {
	return actions.New(ToolProvideSampleWorks,
		"List sample works produced by Ona Stories.",
		nil,
		func(context.Context, actions.NoArgs) (any, error) {
			out := make([]actions.Entry, len(onaSampleWorks))
			copy(out, onaSampleWorks)
			return out, nil
		},
	)
}
