package models

// Proposal is a candidate room and time pending participant votes.
// Created only by a successful planner call; cleared whenever the session
// leaves PROPOSED.
type Proposal struct {
	Room      Room            `bson:"room" json:"room"`
	Slot      TimeSlot        `bson:"slot" json:"slot"`
	Reasoning string          `bson:"reasoning" json:"reasoning"`
	Responses map[string]bool `bson:"responses" json:"responses"` // userID -> accepted
}

// AllResponded reports whether every listed participant has voted.
func (p *Proposal) AllResponded(participants []User) bool {
	for _, u := range participants {
		if _, ok := p.Responses[u.ID]; !ok {
			return false
		}
	}
	return true
}

// AllAccepted reports whether every listed participant voted to accept.
func (p *Proposal) AllAccepted(participants []User) bool {
	for _, u := range participants {
		if !p.Responses[u.ID] {
			return false
		}
	}
	return true
}
