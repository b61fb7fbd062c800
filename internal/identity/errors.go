package identity

import "errors"

// Workflow errors. Callers compare with errors.Is; only ErrInternal hides
// detail, which is logged instead.
var (
	ErrDuplicateIdentity    = errors.New("username already exists")
	ErrInvalidImage         = errors.New("invalid image")
	ErrNoFaceDetected       = errors.New("no face detected in the image")
	ErrNoEnrolledBiometrics = errors.New("no registered faces in the system")
	ErrFaceNotRecognized    = errors.New("face not recognized")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrNotFound             = errors.New("user not found")
	ErrInternal             = errors.New("internal error")

	ErrInvalidName     = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
)
