package service

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrDonationNotFound   = errors.New("donation not found")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrInitiationRejected = errors.New("payment initiation rejected")
)
