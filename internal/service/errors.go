package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	TooManyRequests     = 429
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("Invalid request.")
	ErrTitleInvalid         = errors.New("Title is required and must be at most 150 characters.")
	ErrContentInvalid       = errors.New("Content must be between 50 and 10,000 characters.")
	ErrGenreInvalid         = errors.New("Please provide between 1 and 10 genres, each at most 30 characters.")
	ErrRatingInvalid        = errors.New("Rating must be a whole number between 1 and 5.")
	ErrClaimTokenInvalid    = errors.New("Please enter a valid claim token.")
	ErrUsernameInvalid      = errors.New("Username must be 3-50 characters and contain only letters, numbers, and underscores.")
	ErrBioTooLong           = errors.New("Bio must be 500 characters or fewer.")
	ErrRoleRequired         = errors.New("You must select at least one role.")
	ErrSignUpRoleRequired   = errors.New("Please select at least one role (Author or Reader).")
	ErrSignUpFieldsRequired = errors.New("Username, email, and password are required.")
	ErrEmailRequired        = errors.New("Email is required")
	ErrEmailInvalid         = errors.New("Please enter a valid email address.")
	ErrPasswordTooShort     = errors.New("Password must be at least 6 characters long.")
	ErrPasswordRequired     = errors.New("Password and confirm password are required")
	ErrPasswordMismatch     = errors.New("Passwords do not match")
	ErrNotAuthenticated     = errors.New("You must be signed in to do that.")
	ErrInvalidCredentials   = errors.New("Incorrect email or password. Please try again.")
	ErrEmailNotConfirmed    = errors.New("Please verify your email address before signing in. Check your inbox for the verification link.")
	ErrAuthCodeInvalid      = errors.New("The link is invalid or has expired.")
	ErrNotAuthor            = errors.New("Only authors can publish stories under their account.")
	ErrNotStoryOwner        = errors.New("You do not have permission to edit this story.")
	ErrPermissionDenied     = errors.New("You do not have permission to perform this action.")
	ErrStoryNotFound        = errors.New("Story not found.")
	ErrUserNotFound         = errors.New("User not found.")
	ErrEmailExists          = errors.New("This email address is already registered. Please try signing in.")
	ErrUsernameExists       = errors.New("This username is already taken. Please choose another.")
	ErrClaimInvalid         = errors.New("Invalid or already used claim token.")
	ErrTooManyAttempts      = errors.New("Too many attempts. Please wait a minute and try again.")
	ErrResetMailFailed      = errors.New("Could not send password reset email. Please check the address and try again.")
	ErrPasswordUpdateFailed = errors.New("Password update failed. The link may have expired or the password might not meet requirements.")
	UnExpectedError         = errors.New("An unexpected error occurred. Please try again.")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrTitleInvalid:         BadRequest,
	ErrContentInvalid:       BadRequest,
	ErrGenreInvalid:         BadRequest,
	ErrRatingInvalid:        BadRequest,
	ErrClaimTokenInvalid:    BadRequest,
	ErrUsernameInvalid:      BadRequest,
	ErrBioTooLong:           BadRequest,
	ErrRoleRequired:         BadRequest,
	ErrSignUpRoleRequired:   BadRequest,
	ErrSignUpFieldsRequired: BadRequest,
	ErrEmailRequired:        BadRequest,
	ErrEmailInvalid:         BadRequest,
	ErrPasswordTooShort:     BadRequest,
	ErrPasswordRequired:     BadRequest,
	ErrPasswordMismatch:     BadRequest,
	ErrNotAuthenticated:     Unauthorized,
	ErrInvalidCredentials:   Unauthorized,
	ErrEmailNotConfirmed:    Unauthorized,
	ErrAuthCodeInvalid:      Unauthorized,
	ErrNotAuthor:            Forbidden,
	ErrNotStoryOwner:        Forbidden,
	ErrPermissionDenied:     Forbidden,
	ErrStoryNotFound:        NotFound,
	ErrUserNotFound:         NotFound,
	ErrEmailExists:          Conflict,
	ErrUsernameExists:       Conflict,
	ErrClaimInvalid:         Conflict,
	ErrTooManyAttempts:      TooManyRequests,
	ErrResetMailFailed:      InternalServerError,
	ErrPasswordUpdateFailed: BadRequest,
	UnExpectedError:         InternalServerError,
}

// LookupError 返回 err 对应的已登记错误及状态码，未登记时 ok 为 false
func LookupError(err error) (known error, code int, ok bool) {
	if code, ok = ErrorMap[err]; ok {
		return err, code, true
	}
	for candidate, c := range ErrorMap {
		if errors.Is(err, candidate) {
			return candidate, c, true
		}
	}
	return UnExpectedError, InternalServerError, false
}
