package domain

// UserContext personalizes agent behavior and travels with every
// workflow request. It is set at login, persisted locally, and cleared
// at logout.
type UserContext struct {
	UserID     string
	Department string
	Role       string
	Location   string
	Language   string
}

// AnonymousContext is the default profile used when nobody is logged
// in, mirroring the backend's fallback.
func AnonymousContext() UserContext {
	return UserContext{
		UserID:     "anonymous",
		Department: "Other",
		Role:       "Employee",
		Location:   "Unknown",
		Language:   "en",
	}
}

func (u UserContext) Anonymous() bool {
	return u.UserID == "" || u.UserID == "anonymous"
}
