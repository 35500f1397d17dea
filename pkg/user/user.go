package user

import "strings"

// User is the signed-in identity as returned by the service. It is owned by
// the session store and replaced wholesale on login or account switch.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Avatar      string       `json:"avatar,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

type Preferences struct {
	Currency      string         `json:"currency,omitempty"`
	Notifications *Notifications `json:"notifications,omitempty"`
}

type Notifications struct {
	EmailAlerts  bool `json:"emailAlerts"`
	WeeklyReport bool `json:"weeklyReport"`
	BudgetAlerts bool `json:"budgetAlerts"`
}

// ActiveAccount is one of the identities a session can switch between
// without re-entering credentials.
type ActiveAccount struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	IsActive bool   `json:"isActive"`
}

// NormalizeAvatarURL rewrites a relative avatar path to an absolute URL
// against the media origin. Applying it to an already absolute URL is a
// no-op, so it is safe to run at every ingestion point.
func NormalizeAvatarURL(u User, origin string) User {
	if u.Avatar != "" && !strings.HasPrefix(u.Avatar, "http") {
		u.Avatar = origin + u.Avatar
	}
	return u
}
