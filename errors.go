package stage

import "errors"

var (
	// ErrLayoutNotFound is returned by loaders when a scene has no layout
	// document. Builders treat it as an empty scene.
	ErrLayoutNotFound = errors.New("layout not found")
	// ErrMalformedLayout marks a document without an objects list.
	ErrMalformedLayout = errors.New("malformed layout")
	// ErrDuplicateName marks two objects sharing a name within a scene.
	ErrDuplicateName = errors.New("duplicate object name")
	// ErrInvalidBody is returned when a physics body cannot be attached.
	ErrInvalidBody = errors.New("invalid physics body")
	// ErrUnknownScene is returned when a SceneID is not registered.
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidJump marks a jump with neither a destination scene nor a
	// label target.
	ErrInvalidJump = errors.New("invalid jump")
)
