package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the authenticated user may not access the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates that the resource is not in a state that allows the operation,
// e.g. confirming a receipt that is already confirmed or discarded.
var ErrConflict = errors.New("resource state conflict")

// ErrUnsupportedFormat indicates that the document container format cannot be used for
// the requested operation (e.g. a PDF submitted for structured extraction).
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrUnparsableResponse indicates that the inference service returned text that could
// not be turned into the expected JSON by any parser stage.
var ErrUnparsableResponse = errors.New("unparsable inference response")

// ErrCategoryMissing indicates that a required system category row is absent from the
// datastore. This is fatal to the operation and is never silently defaulted.
var ErrCategoryMissing = errors.New("system category missing")
