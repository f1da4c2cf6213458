package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"requested to assigned", StatusRequested, StatusAssigned, true},
		{"assigned to ready to close", StatusAssigned, StatusReadyToClose, true},
		{"assigned to closed", StatusAssigned, StatusClosed, true},
		{"ready to close to closed", StatusReadyToClose, StatusClosed, true},
		{"requested to closed", StatusRequested, StatusClosed, false},
		{"requested to ready to close", StatusRequested, StatusReadyToClose, false},
		{"closed to anything", StatusClosed, StatusRequested, false},
		{"assigned back to requested", StatusAssigned, StatusRequested, false},
		{"same state", StatusAssigned, StatusAssigned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, s := range []Status{StatusRequested, StatusAssigned, StatusReadyToClose, StatusClosed} {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if Status("cancelled").Valid() {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestTerminalAndCloseable(t *testing.T) {
	if !IsTerminal(StatusClosed) {
		t.Fatal("closed must be terminal")
	}
	if IsTerminal(StatusRequested) || IsTerminal(StatusAssigned) || IsTerminal(StatusReadyToClose) {
		t.Fatal("only closed is terminal")
	}
	if !Closeable(StatusAssigned) || !Closeable(StatusReadyToClose) {
		t.Fatal("assigned and ready_to_close must be closeable")
	}
	if Closeable(StatusRequested) || Closeable(StatusClosed) {
		t.Fatal("requested and closed must not be closeable")
	}
}
