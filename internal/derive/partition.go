package derive

import "github.com/mvdveen/streamfinder/internal/domain"

// PartitionRecommendations splits a ranked recommendation list into the
// titles available on the user's platforms and the rest. The split is a
// stable partition: both sublists preserve the input's relative order, so
// the server's ranking survives the presentation split.
func PartitionRecommendations(recs []domain.Recommendation) (onPlatform, other []domain.Recommendation) {
	for _, r := range recs {
		if r.AvailableOnYourPlatform {
			onPlatform = append(onPlatform, r)
		} else {
			other = append(other, r)
		}
	}
	return onPlatform, other
}
