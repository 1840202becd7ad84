package models

import "errors"

var ErrEmptyProfile = errors.New("empty user profile")
