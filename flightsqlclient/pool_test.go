package flightsqlclient

import "testing"

func TestClientPoolCloseOnEmptyPoolIsSafe(t *testing.T) {
	p := newClientPool()
	p.Close()
}
