package flows

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/tools"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("")
	require.NoError(t, err)
	assert.Equal(t, Storytelling, id)

	id, err = ParseID(" Gas_Station ")
	require.NoError(t, err)
	assert.Equal(t, GasStation, id)

	_, err = ParseID("retrieval")
	assert.Error(t, err)
}

func TestBuildRegistriesAreDisjointPerFlow(t *testing.T) {
	cases := map[ID][]actions.Name{
		Storytelling: {tools.ToolWhatIsOnaStories, tools.ToolProvideContactAndLocation, tools.ToolProvideSampleWorks},
		GasStation: {
			tools.ToolRegisterUser, tools.ToolListFillingStations, tools.ToolGetContactInfo,
			tools.ToolSelectPaymentOption, tools.ToolConfirmBooking, tools.ToolProcessPayment,
			tools.ToolCheckPaymentStatus, tools.ToolProvidePaymentInstructions,
		},
		Ticketing: {
			tools.ToolListTicketTypes, tools.ToolCheckTicketAvailability,
			tools.ToolSelectPaymentOption, tools.ToolConfirmBooking, tools.ToolProcessPayment,
			tools.ToolCheckPaymentStatus, tools.ToolProvidePaymentInstructions,
		},
	}
	for id, want := range cases {
		t.Run(string(id), func(t *testing.T) {
			f, err := Build(id, Deps{})
			require.NoError(t, err)
			assert.Equal(t, want, f.Registry.Names())
			assert.Len(t, f.Registry.Infos(), len(want))
			assert.NotEmpty(t, f.Instructions)
		})
	}

	_, err := Build("retrieval", Deps{})
	assert.Error(t, err)
}

func TestBuildSharesInjectedBookingRepository(t *testing.T) {
	repo := tools.NewMemoryBookingRepository()
	f, err := Build(Ticketing, Deps{Bookings: repo})
	require.NoError(t, err)

	sel, ok := f.Registry.Lookup(string(tools.ToolSelectPaymentOption))
	require.True(t, ok)
	_, err = sel.Invoke(context.Background(), `{"user_id": "7", "payment_option": "cash"}`)
	require.NoError(t, err)

	list, _ := repo.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "7", list[0].UserID)
}

func TestRenderSystemInterpolatesName(t *testing.T) {
	f, err := Build(Storytelling, Deps{})
	require.NoError(t, err)

	msg, err := f.RenderSystem(context.Background(), "Neema")
	require.NoError(t, err)
	assert.Equal(t, schema.System, msg.Role)
	assert.Contains(t, msg.Content, "You are having a conversation with the client named Neema. Instructions: You are Ona")
}
