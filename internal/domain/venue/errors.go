package venue

import "errors"

var (
	ErrVenueNotFound  = errors.New("venue not found")
	ErrVenueNameTaken = errors.New("venue name already taken")
)
