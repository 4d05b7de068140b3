package services

import "testing"

func TestRankOrdering(t *testing.T) {
	cohort := []CohortAverage{
		{StudentID: 1, FullName: "Ama Mensah", AverageScore: 90},
		{StudentID: 2, FullName: "Kofi Boateng", AverageScore: 70},
		{StudentID: 3, FullName: "Esi Owusu", AverageScore: 80},
	}

	ranked := Rank(cohort)
	if len(ranked) != 3 {
		t.Fatalf("ranked %d students, want 3", len(ranked))
	}

	wantOrder := []uint{1, 3, 2}
	wantText := []string{"1st of 3", "2nd of 3", "3rd of 3"}
	for i := range ranked {
		if ranked[i].StudentID != wantOrder[i] {
			t.Errorf("position %d: student %d, want %d", i+1, ranked[i].StudentID, wantOrder[i])
		}
		if ranked[i].PositionText != wantText[i] {
			t.Errorf("position %d: text %q, want %q", i+1, ranked[i].PositionText, wantText[i])
		}
		if ranked[i].Position != i+1 {
			t.Errorf("position %d: Position = %d", i+1, ranked[i].Position)
		}
	}
}

func TestRankTieBreak(t *testing.T) {
	cohort := []CohortAverage{
		{StudentID: 9, AverageScore: 75},
		{StudentID: 4, AverageScore: 75},
		{StudentID: 7, AverageScore: 75},
	}

	ranked := Rank(cohort)
	// Equal averages order by ascending student ID
	wantOrder := []uint{4, 7, 9}
	for i := range ranked {
		if ranked[i].StudentID != wantOrder[i] {
			t.Errorf("position %d: student %d, want %d", i+1, ranked[i].StudentID, wantOrder[i])
		}
	}
}

func TestRankDeterministic(t *testing.T) {
	cohort := []CohortAverage{
		{StudentID: 2, AverageScore: 60},
		{StudentID: 1, AverageScore: 60},
		{StudentID: 3, AverageScore: 88},
	}

	first := Rank(cohort)
	for run := 0; run < 5; run++ {
		again := Rank(cohort)
		for i := range again {
			if again[i].StudentID != first[i].StudentID {
				t.Fatalf("run %d: ordering changed at position %d", run, i+1)
			}
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	cohort := []CohortAverage{
		{StudentID: 5, AverageScore: 10},
		{StudentID: 6, AverageScore: 99},
	}
	Rank(cohort)
	if cohort[0].StudentID != 5 {
		t.Error("input slice was reordered")
	}
}

func TestRankSingleStudent(t *testing.T) {
	ranked := Rank([]CohortAverage{{StudentID: 1, FullName: "Yaw Darko", AverageScore: 50}})
	if len(ranked) != 1 {
		t.Fatalf("ranked %d, want 1", len(ranked))
	}
	if ranked[0].PositionText != "1st of 1" {
		t.Errorf("PositionText = %q, want \"1st of 1\"", ranked[0].PositionText)
	}
}

func TestRankEmptyCohort(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Errorf("empty cohort ranked %d students", len(got))
	}
}
