package artwork

import "testing"

func TestBestCandidate(t *testing.T) {
	at := func(size int) Candidate {
		return Candidate{Result: Result{ImageURL: "img"}, Size: size}
	}

	tests := []struct {
		name       string
		candidates []Candidate
		target     int
		tolerance  int
		wantSize   int
		wantNil    bool
	}{
		{"exact match wins", []Candidate{at(100), at(450), at(600)}, 450, 150, 450, false},
		{"closest within tolerance", []Candidate{at(100), at(600)}, 450, 150, 600, false},
		{"tolerance boundary inclusive", []Candidate{at(300)}, 450, 150, 300, false},
		{"everything too far", []Candidate{at(100)}, 450, 150, 0, true},
		{"no candidates", nil, 450, 150, 0, true},
		{"exact beats earlier near miss", []Candidate{at(400), at(450)}, 450, 150, 450, false},
		{"first of equal deltas", []Candidate{at(400), at(500)}, 450, 150, 400, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bestCandidate(tt.candidates, tt.target, tt.tolerance)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected nil, got size %d", got.Size)
				}
				return
			}
			if got == nil {
				t.Fatalf("Expected size %d, got nil", tt.wantSize)
			}
			if got.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", got.Size, tt.wantSize)
			}
		})
	}
}
