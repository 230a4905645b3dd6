package ai

// Flashcard is one generated question/answer pair.
type Flashcard struct {
	Question string
	Answer   string
}

// QuizQuestion is one generated multiple-choice question. CorrectOption holds
// the full text of the correct answer and always matches one of the options.
type QuizQuestion struct {
	Question      string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
}

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	// RoleUser marks a message written by the student.
	RoleUser MessageRole = "user"
	// RoleAssistant marks a message written by the tutor model.
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn of conversation history passed to the tutor.
type Message struct {
	Role    MessageRole
	Content string
}
