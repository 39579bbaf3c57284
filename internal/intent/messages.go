package intent

// Fulfillment texts returned to the agent.
const (
	MsgProductsFound   = "I found the following products: %s."
	MsgNoProducts      = "Sorry, I couldn't find any products matching your search."
	MsgOrderIDRequired = "Please provide a valid order ID."
	MsgOrderStatus     = "The status of your order %s is: %s."
	MsgOrderFailed     = "Sorry, I couldn't fetch the order details."
	MsgNotUnderstood   = "Sorry, I didn't understand that request."
	MsgSomethingWrong  = "Sorry, something went wrong while processing your request."
)
