package devserver

// Route patterns. Paths match the deployed API, trailing slashes included. {$} stops
// a trailing slash from matching the whole subtree.
const (
	// Auth
	RouteLogin   = "POST /api/auth/login/{$}"
	RouteSignup  = "POST /api/auth/signup/{$}"
	RouteRefresh = "POST /api/auth/refresh/{$}"

	// Gyms
	RouteListGyms  = "GET /api/gyms/{$}"
	RouteCreateGym = "POST /api/gyms/{$}"

	// Members
	RouteListMembers     = "GET /api/gyms/{gymID}/members/{$}"
	RouteCreateMember    = "POST /api/gyms/{gymID}/members/{$}"
	RouteExpiringMembers = "GET /api/gyms/{gymID}/members/expiring/{$}"
	RouteUpdateMember    = "PATCH /api/gyms/{gymID}/members/{memberID}/{$}"
	RouteDeleteMember    = "DELETE /api/gyms/{gymID}/members/{memberID}/delete"

	// Billing
	RouteCheckout = "POST /api/billing/checkout/{$}"
)
