package requests

// NavigationEventRequest is what the widget posts after every navigation attempt.
type NavigationEventRequest struct {
	URL     string `json:"url" binding:"required"`
	Command string `json:"command"`
	Success *bool  `json:"success" binding:"required"`
	BotUUID string `json:"botUuid"`
}
