package models

// Participant is a member of the group sharing expenses.
// Participants are compared by Name, which is unique within a registry.
type Participant struct {
	// Name is the normalized display name of the participant.
	Name string
}

// String returns the participant's name.
func (p Participant) String() string {
	return p.Name
}

// Names returns the names of the given participants in order.
func Names(participants []Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}
