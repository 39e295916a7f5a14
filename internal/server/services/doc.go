// Package services contains the server-side business logic: binding browser
// sessions to anonymous lists, list ownership and task mutation,
// registration and login, and the two-phase password reset.
//
// Services hold the connection pool and a repomanager.RepositoryManager and
// open repositories per call, either on the pool or on a transaction.
// Per-browser state is always passed in explicitly as a *session.State.
package services
