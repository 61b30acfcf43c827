package check_slot_room

// CheckRoomRequest HTTP request model
type CheckRoomRequest struct {
	Tickets map[string]int `json:"tickets"`
}
