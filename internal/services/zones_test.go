package services

import "testing"

func TestZoneThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, ZoneInner},
		{65, ZoneInner},
		{60, ZoneInner},
		{59.9, ZoneGoldilocks},
		{45, ZoneGoldilocks},
		{30, ZoneGoldilocks},
		{29.9, ZoneOuter},
		{10, ZoneOuter},
		{0, ZoneOuter},
	}
	for _, tc := range cases {
		if got := Zone(tc.score); got != tc.want {
			t.Errorf("Zone(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestZoneRankOrdersByCloseness(t *testing.T) {
	if !(zoneRank(ZoneInner) > zoneRank(ZoneGoldilocks) && zoneRank(ZoneGoldilocks) > zoneRank(ZoneOuter)) {
		t.Fatal("zone ranks out of order")
	}
	if zoneRank("") >= zoneRank(ZoneOuter) {
		t.Fatal("unknown zone must rank below every real zone")
	}
}
