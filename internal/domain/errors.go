package domain

import "errors"

// Lookup errors
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Authorization errors
var (
	ErrSelfBid      = errors.New("cannot bid on your own item")
	ErrUnauthorized = errors.New("unauthorized")
)

// Conflict errors
var (
	ErrAuctionClosed = errors.New("bidding has ended for this item")
	ErrBidTooLow     = errors.New("bid amount too low")
	ErrBidsExist     = errors.New("bids have already been placed")
)

// Validation errors
var (
	ErrInvalidInput = errors.New("invalid input")
)
