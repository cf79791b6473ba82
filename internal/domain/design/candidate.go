package design

// Candidate (TargetPole in the source material) is derived per request:
// a Pole considered as a possible origin for the consumer's service.
type Candidate struct {
	Pole        *Pole
	Distance    float64 // Euclidean distance, consumer to Pole.Position
	IsFastTrack bool
	Priority    int
}
