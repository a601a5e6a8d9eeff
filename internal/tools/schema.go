package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/sashabaranov/go-openai"
)

// generateSchema derives a JSON schema for a typed argument struct.
func generateSchema[T any]() json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return raw
}

type definition struct {
	name        string
	description string
	schema      json.RawMessage
}

var definitions = []definition{
	{NameAddToQueue, "Add a catalog product to the user's purchase queue at the current market price.", generateSchema[AddToQueueCall]()},
	{NameSellItem, "Sell an item the user owns back to the exchange at market price.", generateSchema[SellItemCall]()},
	{NameViewProduct, "Open the detail view for a catalog product.", generateSchema[ViewProductCall]()},
	{NameRemoveFromQueue, "Remove a product from the purchase queue.", generateSchema[RemoveFromQueueCall]()},
	{NameViewQueue, "Open the purchase queue and list its contents.", generateSchema[ViewQueueCall]()},
	{NameCheckout, "Start the checkout flow for the current queue.", generateSchema[CheckoutCall]()},
	{NameNavigate, "Switch the UI to another screen.", generateSchema[NavigateCall]()},
	{NameCheckOrderStatus, "Look up a past order by its ticket id.", generateSchema[CheckOrderStatusCall]()},
	{NameRecommendProducts, "Search the catalog and return up to three matching products.", generateSchema[RecommendProductsCall]()},
	{NameReplayTutorial, "Restart the onboarding tutorial.", generateSchema[ReplayTutorialCall]()},
}

// LLMTools returns the fixed tool schema advertised to the model on every
// call.
func LLMTools() []openai.Tool {
	out := make([]openai.Tool, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.name,
				Description: d.description,
				Parameters:  d.schema,
			},
		})
	}
	return out
}
