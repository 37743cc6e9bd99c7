package models

// Room is one entry of the static room catalog. Never mutated by the service.
type Room struct {
	ID       string   `bson:"id" json:"id"`
	Building string   `bson:"building" json:"building"`
	Name     string   `bson:"name" json:"name"`
	Capacity int      `bson:"capacity" json:"capacity"`
	Location Location `bson:"location" json:"location"`
}
