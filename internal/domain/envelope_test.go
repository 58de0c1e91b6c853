package domain

import "testing"

func TestKindIsMedia(t *testing.T) {
	media := []Kind{KindMediaOffer, KindMediaAnswer, KindMediaCandidate, KindMediaStop}
	for _, k := range media {
		if !k.IsMedia() {
			t.Errorf("%q.IsMedia() = false", k)
		}
	}
	other := []Kind{KindJoin, KindLeave, KindMessage, KindUserList, Kind("bogus")}
	for _, k := range other {
		if k.IsMedia() {
			t.Errorf("%q.IsMedia() = true", k)
		}
	}
}
