package entity

// Principal is the verified identity attached to a request. Token issuance and
// verification happen in an external auth service; the engine only trusts the
// result for ownership checks.
type Principal struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}
