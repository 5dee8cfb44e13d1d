package scripts

import "github.com/pkg/errors"

var ErrMalformedVersion = errors.New("malformed version")
var ErrMalformedContent = errors.New("malformed script content")
var ErrNotFound = errors.New("not found")

// ErrConsistencyViolation is returned when a script has more than one
// latest version. The store broke its isolation contract and nothing
// here tries to guess which record wins.
var ErrConsistencyViolation = errors.New("consistency violation")

var ErrInvalidSubmission = errors.New("invalid submission")
var ErrAnonymousUpload = errors.New("anonymous uploads are not allowed")
var ErrVersionExists = errors.New("version already exists")
var ErrVoteNotAllowed = errors.New("vote not allowed")
