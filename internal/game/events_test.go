package game

import "testing"

// Wire names are part of the protocol; the delivery layer prefixes them
// with "table:". The payload's Name field must stay independent of the
// event's wire name.
func TestEventNames(t *testing.T) {
	joined := PlayerJoined{Player: "p1", Name: "Player 1"}
	if joined.EventName() != "playerJoined" || joined.Name != "Player 1" {
		t.Fatalf("got %s/%s", joined.EventName(), joined.Name)
	}

	cases := []struct {
		e    Event
		want string
	}{
		{RoundStarted{}, "roundStarted"},
		{ActionTaken{}, "actionTaken"},
		{PlayerSkipped{}, "playerSkipped"},
		{StageAdvanced{}, "stageAdvanced"},
		{RoundWonByFold{}, "roundWonByFold"},
		{ShowdownReached{}, "showdownReached"},
		{TurnExpired{}, "turnExpired"},
		{SessionCancelled{}, "sessionCancelled"},
	}
	for _, c := range cases {
		if got := c.e.EventName(); got != c.want {
			t.Errorf("EventName() = %s, want %s", got, c.want)
		}
	}
}
