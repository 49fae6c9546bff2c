package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration       ErrorType = "CONFIGURATION"
	TypeUnsupportedLanguage ErrorType = "UNSUPPORTED_LANGUAGE"
	TypeNoProjectFile       ErrorType = "NO_PROJECT_FILE"
	TypeCommitNotFound      ErrorType = "COMMIT_NOT_FOUND"
	TypeNoCommitForAuthor   ErrorType = "NO_COMMIT_FOR_AUTHOR"
	TypeExecution           ErrorType = "EXECUTION"
	TypeRemoteAPI           ErrorType = "REMOTE_API"
	TypeCancelled           ErrorType = "CANCELLED"
	TypeValidation          ErrorType = "VALIDATION"
	TypeGit                 ErrorType = "GIT"
	TypeInternal            ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel this error was derived from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// TypeOf returns the category of the first AppError in err's chain, or
// TypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// Configuration errors
var (
	ErrEmptyRepositoryPath = NewAppError(TypeConfiguration, "repository path is empty", nil)

	ErrEmptyImage = NewAppError(TypeConfiguration, "container image is empty", nil)

	ErrEmptyCommand = NewAppError(TypeConfiguration, "command is empty", nil)

	ErrTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
			WithSuggestion("Export GITHUB_TOKEN or set github_token in ~/.repocheck/config.json")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "invalid configuration", nil)
)

// Evaluation errors
var (
	ErrUnsupportedLanguage = NewAppError(TypeUnsupportedLanguage, "repository language is not supported", nil).
				WithSuggestion("Supported languages: C#, Python, Java")

	ErrNoProjectFile = NewAppError(TypeNoProjectFile, "no project file found", nil)

	ErrCommitNotFound = NewAppError(TypeCommitNotFound, "commit not found in repository history", nil)

	ErrNoCommitForAuthor = NewAppError(TypeNoCommitForAuthor, "author has no commits on branch", nil)

	ErrEmptyCommitSHA = NewAppError(TypeCommitNotFound, "commit SHA is empty", nil)
)

// Process errors
var (
	ErrExecutionFailed = NewAppError(TypeExecution, "command execution failed", nil)

	ErrCancelled = NewAppError(TypeCancelled, "operation cancelled", nil)
)

// Git errors
var (
	ErrClone = NewAppError(TypeGit, "failed to clone repository", nil).
			WithSuggestion("Check the repository is public and reachable over HTTPS")

	ErrCheckoutBranch = NewAppError(TypeGit, "failed to checkout branch", nil)

	ErrCheckoutCommit = NewAppError(TypeGit, "failed to checkout commit", nil)

	ErrListCommits = NewAppError(TypeGit, "failed to list local commits", nil)
)

// GitHub errors
var (
	ErrRepositoryNotFound = NewAppError(TypeRemoteAPI, "repository not found", nil).
				WithSuggestion("Check repository owner, name and access permissions")

	ErrGitHubTokenInvalid = NewAppError(TypeRemoteAPI, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeRemoteAPI, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Token needs the 'repo' scope to create branches")

	ErrGitHubRateLimit = NewAppError(TypeRemoteAPI, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")

	ErrRemoteAPI = NewAppError(TypeRemoteAPI, "GitHub API request failed", nil)
)

// Request errors
var (
	ErrInvalidRequest = NewAppError(TypeValidation, "invalid request", nil)

	ErrInternal = NewAppError(TypeInternal, "internal error", nil)
)
