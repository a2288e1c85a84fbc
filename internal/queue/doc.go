package queue

// Package queue turns a batch of dropped media files into voice store entries.
// Jobs run strictly one after another: each job asks the caller for a name,
// resolves collisions with the store, dispatches one asynchronous encode and
// waits for it before the next job is even named.
