package constants

// Route group prefixes
const (
	AuthRoute     = "/auth"
	UserRoute     = "/user"
	QuizRoute     = "/quiz"
	ResourceRoute = "/resource"
)
