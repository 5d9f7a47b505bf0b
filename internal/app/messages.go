package app

import (
	"time"

	"github.com/modelgate/console/internal/models"
	"github.com/modelgate/console/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// MetricsUpdatedMsg carries a fresh metrics sample from the service
// manager into the UI.
type MetricsUpdatedMsg struct {
	Metrics *models.Metrics
}

// ConfigReloadedMsg signals that the configuration changed on disk and
// tabs showing config-derived values should re-render.
type ConfigReloadedMsg struct{}

// RefreshMsg asks the active tab to reload its data.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// CopyToClipboardMsg requests copying text to the system clipboard.
// Label names the copied value in the confirmation toast.
type CopyToClipboardMsg struct {
	Text  string
	Label string
}
