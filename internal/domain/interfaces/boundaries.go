package interfaces

import domaintypes "servicepro/internal/domain/types"

// Notifier is the toast sink. Implementations must not block.
type Notifier interface {
	Notify(n domaintypes.Notification)
}

// Navigator is the host's navigation stack. The session layer only decides
// screens; hosts perform the transitions.
type Navigator interface {
	NavigateTo(screen domaintypes.Screen, params map[string]any)
	ResetTo(screen domaintypes.Screen)
	GoBack()
}
