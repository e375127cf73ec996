package app

import (
	"context"
	"net/url"
	"strings"

	"servicepro/internal/domain"
)

// ParamAllowBack is set in navigation params when the host may offer a
// back action from the destination screen.
const ParamAllowBack = "allowBack"

// Decide returns the screen for the current user.
func (w *Wire) Decide() domain.Decision {
	return w.Router.Next(w.Session.User())
}

// BindNavigator sends nav to the routed screen on every user change,
// including nil after logout or session expiry.
func (w *Wire) BindNavigator(nav domain.Navigator) {
	w.Session.OnUser(func(user *domain.UserRecord) {
		Navigate(nav, w.Router.Next(user))
	})
}

// Navigate applies d to nav. Screens that allow going back are pushed,
// everything else replaces the stack.
func Navigate(nav domain.Navigator, d domain.Decision) {
	if d.AllowBack {
		nav.NavigateTo(d.Screen, map[string]any{ParamAllowBack: true})
		return
	}
	nav.ResetTo(d.Screen)
}

// Start restores the persisted session and returns the initial decision.
func (w *Wire) Start(ctx context.Context) (domain.Decision, error) {
	user, err := w.Session.Restore(ctx)
	if err != nil {
		return w.Router.Next(nil), err
	}
	return w.Router.Next(user), nil
}

func joinURL(base, endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return endpoint, nil
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(endpoint, "/"), nil
}
