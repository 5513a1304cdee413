package utils

import "github.com/google/uuid"

// GenerateSessionID returns a random id used for OAuth state and chat sessions.
func GenerateSessionID() string {
	return uuid.NewString()
}
