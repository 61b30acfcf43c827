package move_slot

// MoveSlotRequest HTTP request model
type MoveSlotRequest struct {
	Start string `json:"start_datetime"`
	End   string `json:"end_datetime"`
}
