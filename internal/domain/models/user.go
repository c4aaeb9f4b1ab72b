package models

// User is a console operator.
type User struct {
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`
	Email  string `json:"email" db:"email"`
}

// AppRoleUsers lists the users holding application-level roles.
type AppRoleUsers struct {
	AppID       string `json:"app_id"`
	MasterUsers []User `json:"master_users"`
}

// MasterUserIDs returns the ids of the master users in listing order.
func (a *AppRoleUsers) MasterUserIDs() []string {
	ids := make([]string, 0, len(a.MasterUsers))
	for _, u := range a.MasterUsers {
		ids = append(ids, u.UserID)
	}
	return ids
}
