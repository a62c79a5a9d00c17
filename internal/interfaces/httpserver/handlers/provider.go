package handlers

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Bot        *BotHandler
	Status     *StatusHandler
	Navigation *NavigationHandler
	Document   *DocumentHandler
	Widget     *WidgetHandler
}

// NewProvider constructs the handler provider.
func NewProvider(
	bot *BotHandler,
	status *StatusHandler,
	navigation *NavigationHandler,
	document *DocumentHandler,
	widget *WidgetHandler,
) *Provider {
	return &Provider{
		Bot:        bot,
		Status:     status,
		Navigation: navigation,
		Document:   document,
		Widget:     widget,
	}
}
