// Package server runs a local development copy of the catalog REST API.
//
// # Routes
//
// Every route is mounted under /api/v1 by [API.Register]:
//
//	POST   /auth/register        201 {user, token}; 400 "Invalid payload" | "Email already exists"
//	POST   /auth/login           200 {user, token}; 400 "Password required"; 401 "Invalid credentials"
//	GET    /courses              all courses
//	GET    /courses/search       ?query=; "#tag" matches tags, otherwise title, description or provider
//	GET    /favourites           courses favourited by the token subject; 401 "User not found"
//	POST   /favourites           {code}; 400 "Already favourited"
//	DELETE /favourites/{code}    404 "Not found"
//	GET    /admin/courses        admin only; 403 "Admin access required"
//	POST   /admin/courses        201 course; 400 on missing fields or a duplicate code
//	PUT    /admin/courses/{id}   partial update, null fields unchanged; 404 "Course not found"
//	DELETE /admin/courses/{id}   404 "Course not found"
//
// Errors are JSON objects of the form {"msg": "..."}.
//
// # Tokens
//
// Tokens are HS256 JWTs keyed by SHA-256 of the configured secret with the user's email as
// subject and a role claim. The admin check reads the role from the [Store], not the token.
//
// # Router Infrastructure
//
// [BasicRouter] registers method patterns on [http.ServeMux] and wraps the whole mux with
// [Middleware] in reverse order (last added executes first). [New] installs [RequestID],
// [Recoverer], [Logger] and [CORS].
//
// # Fixtures
//
// The [Store] is seeded from YAML [Fixtures]. An embedded sample catalog is used when no file is
// given. Passwords are hashed with bcrypt at seed time.
package server
