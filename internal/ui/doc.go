// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The [Model] is a route shell over the catalog routes:
//  1. catalog: filterable course list with tag chips, search and sort
//  2. favorites: the session user's favorites (requires a session)
//  3. admin: course CRUD and dashboard stats (requires the admin role)
//  4. about, login and register
//
// Navigation goes through [guard.Guard]. A denied admin visit shows a notice and is replaced
// by the catalog after a delay. Network calls run as commands and report back through
// messages; favorite toggles are tracked per course so a second press while a request is in
// flight is dropped.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
