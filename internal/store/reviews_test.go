package store

import "testing"

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{name: "empty set", ratings: nil, want: 0},
		{name: "single review", ratings: []int{5}, want: 5},
		{name: "five star plus four star", ratings: []int{5, 4}, want: 4.5},
		{name: "rounds to one decimal", ratings: []int{5, 4, 4}, want: 4.3},
		{name: "rounds half up", ratings: []int{1, 2, 2}, want: 1.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := make([]Review, len(tt.ratings))
			for i, r := range tt.ratings {
				reviews[i] = Review{Rating: r}
			}
			if got := AverageRating(reviews); got != tt.want {
				t.Errorf("AverageRating(%v) = %v, want %v", tt.ratings, got, tt.want)
			}
		})
	}
}

// Prepending a new review to a loaded set shifts the displayed mean exactly
// as the arithmetic average of the loaded ratings.
func TestAverageRatingAfterInsert(t *testing.T) {
	loaded := []Review{{Rating: 5, Comment: "The view is absolutely spectacular!"}}

	inserted := Review{Rating: 4, Comment: "Great spot"}
	loaded = append([]Review{inserted}, loaded...)

	if got := AverageRating(loaded); got != 4.5 {
		t.Errorf("displayed rating = %v, want 4.5", got)
	}
}
