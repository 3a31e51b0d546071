// Package models defines the catalog entities shared by every other package.
//
//   - [Course] : a catalog record as served by the API, normalized on decode
//   - [CourseInput] : the body of an admin create request
//   - [CoursePatch] : a partial admin update, nil fields are left unchanged
//   - [FavoriteSet] : an ordered set of course snapshots keyed by code
//
// The API returns lists either as bare arrays or wrapped in an object. [DecodeCourseList]
// turns both into []Course so nothing downstream branches on response shape.
package models
