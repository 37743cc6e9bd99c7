package models

// User is the identity supplied by the sign-in collaborator.
// Immutable once created; the id is a stable opaque key.
type User struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// Location is a lat/lng pair, used only as a planner tie-break hint.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}
