package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the conversation transcript. The transcript is
// append-only and never reordered.
type Turn struct {
	Role    Role
	Content string

	// Optional context carried by agent questions.
	Reason     string
	Section    string
	Subsection string

	// Err marks assistant turns that report a failed request rather
	// than agent output.
	Err bool
}

func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

func ErrorTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content, Err: true}
}
