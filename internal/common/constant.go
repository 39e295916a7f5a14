package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "todolist_session"

// SeedTaskContent is the single task every freshly minted anonymous list starts with.
const SeedTaskContent = "My First ToDo"

// DueDateDisplayLayout formats a task due date for display, e.g. "Mar 07, 2026".
const DueDateDisplayLayout = "Jan 02, 2006"
