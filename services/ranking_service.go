package services

import (
	"sort"

	"gesschool_go/database"
	"gesschool_go/models"
	"gesschool_go/utils"

	"github.com/shopspring/decimal"
)

// RankingService orders students within a cohort by the average of their
// subject total scores and renders positions as "1st of 30".
type RankingService struct{}

func NewRankingService() *RankingService {
	return &RankingService{}
}

// RankedStudent is one row of a cohort ranking.
type RankedStudent struct {
	StudentID    uint    `json:"student_id"`
	FullName     string  `json:"full_name"`
	AverageScore float64 `json:"average_score"`
	Position     int     `json:"position"`
	PositionText string  `json:"position_text"`
}

// CohortAverage pairs a student with their period average for ranking.
type CohortAverage struct {
	StudentID    uint
	FullName     string
	AverageScore float64
}

// Rank sorts a cohort by descending average and assigns 1-based
// positions. Equal averages are ordered by ascending student ID, so
// positions are deterministic across runs.
func Rank(cohort []CohortAverage) []RankedStudent {
	sorted := make([]CohortAverage, len(cohort))
	copy(sorted, cohort)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AverageScore != sorted[j].AverageScore {
			return sorted[i].AverageScore > sorted[j].AverageScore
		}
		return sorted[i].StudentID < sorted[j].StudentID
	})

	ranked := make([]RankedStudent, len(sorted))
	for i, c := range sorted {
		position := i + 1
		ranked[i] = RankedStudent{
			StudentID:    c.StudentID,
			FullName:     c.FullName,
			AverageScore: c.AverageScore,
			Position:     position,
			PositionText: utils.FormatPosition(position, len(sorted)),
		}
	}
	return ranked
}

// RankClass computes the ranking for every active student of a class
// level in one period. Inactive students are excluded from the cohort;
// active students without any recorded grade rank with an average of 0.
func (s *RankingService) RankClass(classLevel string, periodID uint) ([]RankedStudent, error) {
	if !models.IsValidClassLevel(classLevel) {
		return nil, utils.NewValidationError("class_level", "unknown class level")
	}

	cohort, err := s.loadCohortAverages(classLevel, periodID)
	if err != nil {
		return nil, err
	}
	return Rank(cohort), nil
}

// StudentPosition returns one student's rank within their class cohort,
// or nil when the student is not part of the cohort.
func (s *RankingService) StudentPosition(studentID, periodID uint) (*RankedStudent, error) {
	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		return nil, err
	}

	ranked, err := s.RankClass(student.ClassLevel, periodID)
	if err != nil {
		return nil, err
	}
	for i := range ranked {
		if ranked[i].StudentID == studentID {
			return &ranked[i], nil
		}
	}
	return nil, nil
}

func (s *RankingService) loadCohortAverages(classLevel string, periodID uint) ([]CohortAverage, error) {
	var students []models.Student
	if err := database.DB.Where("class_level = ? AND active = ?", classLevel, true).
		Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	cohort := make([]CohortAverage, 0, len(students))
	for i := range students {
		var grades []models.Grade
		if err := database.DB.Where("student_id = ? AND period_id = ?", students[i].ID, periodID).
			Find(&grades).Error; err != nil {
			return nil, err
		}

		var sum float64
		var count int
		for j := range grades {
			if grades[j].TotalScore != nil {
				sum += *grades[j].TotalScore
				count++
			}
		}
		var average float64
		if count > 0 {
			average = roundTo2(sum / float64(count))
		}
		cohort = append(cohort, CohortAverage{
			StudentID:    students[i].ID,
			FullName:     students[i].FullName(),
			AverageScore: average,
		})
	}
	return cohort, nil
}

func roundTo2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
