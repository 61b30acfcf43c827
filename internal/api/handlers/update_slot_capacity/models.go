package update_slot_capacity

// UpdateCapacityRequest HTTP request model
type UpdateCapacityRequest struct {
	Total   *int           `json:"capacity_total"`
	PerType map[string]int `json:"capacity_per_type"`
}
