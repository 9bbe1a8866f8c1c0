package matching

// AdminCreatePartnerDTO is the body of the admin single-user match
// trigger.
type AdminCreatePartnerDTO struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// MatchCountResponse wraps the lifetime match counter.
type MatchCountResponse struct {
	Count int64 `json:"count"`
}

// ClearHistoryResponse reports how many exclusion entries were
// dropped.
type ClearHistoryResponse struct {
	Removed int64 `json:"removed"`
}
