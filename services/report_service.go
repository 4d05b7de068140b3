package services

import (
	"fmt"
	"time"

	"gesschool_go/database"
	"gesschool_go/models"
	"gesschool_go/storage"
	"gesschool_go/utils"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService assembles per-student period summaries (report cards),
// publishes them, and exports full period results as Excel workbooks.
type ReportService struct {
	ranking *RankingService
	grading *GradingService
}

func NewReportService() *ReportService {
	return &ReportService{
		ranking: NewRankingService(),
		grading: NewGradingService(),
	}
}

// GenerateReportCards builds or refreshes the report card of every ranked
// student in a class for the period: average score, overall grade and
// class position. Published cards are not regenerated.
func (s *ReportService) GenerateReportCards(classLevel string, periodID uint) (int, error) {
	ranked, err := s.ranking.RankClass(classLevel, periodID)
	if err != nil {
		return 0, err
	}

	cfg, err := s.grading.BoundaryConfig()
	if err != nil {
		return 0, err
	}

	generated := 0
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var period models.AcademicPeriod
		if err := tx.First(&period, periodID).Error; err != nil {
			return err
		}

		for _, r := range ranked {
			var card models.ReportCard
			err := tx.Where("student_id = ? AND period_id = ?", r.StudentID, periodID).First(&card).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}
			if err == nil && card.Published {
				continue
			}

			card.StudentID = r.StudentID
			card.PeriodID = periodID
			card.AverageScore = r.AverageScore
			card.OverallGrade = s.overallGrade(r.AverageScore, cfg)
			card.Position = r.PositionText

			if err := tx.Save(&card).Error; err != nil {
				return err
			}
			generated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"class_level": classLevel,
		"period_id":   periodID,
		"count":       generated,
	}).Info("Generated report cards")
	return generated, nil
}

// overallGrade classifies the average under the configured display mode.
func (s *ReportService) overallGrade(average float64, cfg *models.GradeBoundaryConfig) string {
	switch cfg.GradingSystem {
	case models.GradingSystemLetter:
		return ClassifyLetter(average, cfg)
	case models.GradingSystemBoth:
		numeric := ClassifyNumeric(average, cfg)
		letter := ClassifyLetter(average, cfg)
		if numeric == models.GradeNotAvailable {
			return models.GradeNotAvailable
		}
		return fmt.Sprintf("%s/%s", numeric, letter)
	default:
		return ClassifyNumeric(average, cfg)
	}
}

// PublishReportCards marks every card of a class/period published and
// stamps the publication time. Idempotent for already-published cards.
func (s *ReportService) PublishReportCards(classLevel string, periodID uint) (int, error) {
	now := time.Now()
	var published int64

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ReportCard{}).
			Where("period_id = ? AND published = ? AND student_id IN (?)",
				periodID, false,
				tx.Model(&models.Student{}).Select("id").Where("class_level = ?", classLevel)).
			Updates(map[string]interface{}{"published": true, "published_at": now})
		if result.Error != nil {
			return result.Error
		}
		published = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(published), nil
}

// GetReportCard fetches one student's card for a period.
func (s *ReportService) GetReportCard(studentID, periodID uint) (*models.ReportCard, error) {
	var card models.ReportCard
	err := database.DB.Preload("Student").Preload("Period").
		Where("student_id = ? AND period_id = ?", studentID, periodID).First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateRemarks sets the teacher/principal remarks on an unpublished card.
func (s *ReportService) UpdateRemarks(cardID uint, teacherRemarks, principalRemarks string) (*models.ReportCard, error) {
	var card models.ReportCard
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&card, cardID).Error; err != nil {
			return err
		}
		if card.Published {
			return utils.NewValidationError("id", "remarks cannot change after publication")
		}
		card.TeacherRemarks = teacherRemarks
		card.PrincipalRemarks = principalRemarks
		return tx.Save(&card).Error
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// ExportPeriodResults writes the full grade sheet of a class/period into
// an Excel workbook and uploads it to S3. Returns the object URL.
func (s *ReportService) ExportPeriodResults(classLevel string, periodID uint) (string, error) {
	var period models.AcademicPeriod
	if err := database.DB.Preload("AcademicYear").First(&period, periodID).Error; err != nil {
		return "", err
	}

	var students []models.Student
	if err := database.DB.Where("class_level = ? AND active = ?", classLevel, true).
		Order("last_name ASC, first_name ASC").Find(&students).Error; err != nil {
		return "", err
	}

	ranked, err := s.ranking.RankClass(classLevel, periodID)
	if err != nil {
		return "", err
	}
	positions := make(map[uint]string, len(ranked))
	for _, r := range ranked {
		positions[r.StudentID] = r.PositionText
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Admission No", "Student", "Subject", "Homework", "Classwork", "Test", "Exam", "Total", "Grade", "Letter", "Position"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i := range students {
		grades, err := s.grading.GetStudentGrades(students[i].ID, periodID)
		if err != nil {
			return "", err
		}
		for j := range grades {
			g := &grades[j]
			values := []interface{}{
				students[i].AdmissionNo,
				students[i].FullName(),
				g.Subject.Name,
				g.HomeworkPercent,
				g.ClassworkPercent,
				g.TestPercent,
				g.ExamPercent,
			}
			if g.TotalScore != nil {
				values = append(values, *g.TotalScore)
			} else {
				values = append(values, models.GradeNotAvailable)
			}
			values = append(values, g.NumericGrade, g.LetterGrade, positions[students[i].ID])
			for k, v := range values {
				cell, _ := excelize.CoordinatesToCellName(k+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to build workbook: %v", err)
	}

	store, err := storage.NewStorageService()
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s-%s-results.xlsx", classLevel, sanitizeFilePart(period.Name))
	url, err := store.UploadBytes(buf.Bytes(), "reports", filename)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"class_level": classLevel,
		"period_id":   periodID,
		"url":         url,
	}).Info("Exported period results")
	return url, nil
}

func sanitizeFilePart(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			out = append(out, r)
		case r == ' ' || r == '/':
			out = append(out, '-')
		}
	}
	return string(out)
}
