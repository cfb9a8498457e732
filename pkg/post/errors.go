package post

import "errors"

var (
	// ErrNotFound indicates the requested post does not exist.
	ErrNotFound = errors.New("post: not found")

	// ErrEmptySlug indicates an operation was attempted with an empty slug.
	ErrEmptySlug = errors.New("post: slug is empty")

	// ErrBadSlug indicates a slug that does not satisfy ValidateSlug.
	ErrBadSlug = errors.New("post: malformed slug")

	// ErrMalformedFrontmatter indicates a document whose frontmatter
	// block could not be decoded.
	ErrMalformedFrontmatter = errors.New("post: malformed frontmatter")

	// ErrPartWithoutSeries indicates a post numbered as part of a
	// series without naming one.
	ErrPartWithoutSeries = errors.New("post: part set without series")

	// ErrNoChanges indicates a publish found nothing to commit.
	ErrNoChanges = errors.New("post: no content changes")

	// ErrWatchUnsupported indicates the store cannot emit change events.
	ErrWatchUnsupported = errors.New("post: store does not support watching")

	// ErrSyncUnsupported indicates the store cannot sync with a remote.
	ErrSyncUnsupported = errors.New("post: store does not support sync")

	// ErrPublishUnsupported indicates the store cannot version content.
	ErrPublishUnsupported = errors.New("post: store does not support publishing")
)
