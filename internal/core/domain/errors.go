package domain

import "errors"

// ErrFileNotFound is an error thrown when no live record matches, or its blob is gone
var ErrFileNotFound = errors.New("file not found")

// ErrFileExpired is an error thrown when the expiry window of a file is closed
var ErrFileExpired = errors.New("file expired")

// ErrDownloadLimitReached is an error thrown when the download quota is exhausted
var ErrDownloadLimitReached = errors.New("download limit reached")

// ErrDuplicateCode is an error thrown when a code already belongs to a live record
var ErrDuplicateCode = errors.New("duplicate code")

// ErrCodeSpaceExhausted is an error thrown when no free code was found within the retry budget
var ErrCodeSpaceExhausted = errors.New("code space exhausted")

// ErrInvalidCode is an error thrown when a code is not a 6-digit number
var ErrInvalidCode = errors.New("invalid code")

// ErrBlobNotFound is an error thrown by blob stores when a blob does not exist
var ErrBlobNotFound = errors.New("blob not found")

// ErrStorageIO is an error thrown when a blob read or write fails
var ErrStorageIO = errors.New("storage io error")
