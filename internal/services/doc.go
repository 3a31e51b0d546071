// Package services is the API gateway client for the SkillStream REST API.
//
// [APIService] is the raw layer: it resolves paths against the base URL, stamps every request
// with an X-Request-ID, optionally throttles with a [rate.Limiter] and attaches the bearer
// credential through an [oauth2.TokenSource] read at send time.
//
// [CatalogService] is the typed layer implementing [Catalog]. List endpoints may answer with an
// array or a wrapped object; both are normalized by [models.DecodeCourseList] before they leave
// this package.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which unwraps to a sentinel from the shared package:
//   - 401 : [shared.ErrNotAuthenticated]
//   - 403 : [shared.ErrForbidden]
//   - 404 : [shared.ErrNotFound]
//   - 409, or 400 with an "already ..." message : [shared.ErrConflict]
//   - other 400 / 422 : [shared.ErrValidation]
//   - 5xx : [shared.ErrServiceUnavailable]
//
// Transport failures wrap [shared.ErrNetwork]. Nothing is retried.
package services
