package kitchens

// KitchenArea represents a production area within a catering site
type KitchenArea struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}
