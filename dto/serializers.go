package dto

import (
	"time"

	"gesschool_go/models"
)

// Compact representations used across APIs
type StudentShort struct {
	ID          uint   `json:"id"`
	FullName    string `json:"full_name"`
	AdmissionNo string `json:"admission_no,omitempty"`
	ClassLevel  string `json:"class_level,omitempty"`
}

type SubjectShort struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	MustPass bool   `json:"must_pass"`
}

type PeriodDTO struct {
	ID             uint            `json:"id"`
	AcademicYearID uint            `json:"academic_year_id"`
	AcademicYear   string          `json:"academic_year,omitempty"`
	PeriodSystem   string          `json:"period_system"`
	PeriodNumber   int             `json:"period_number"`
	Name           string          `json:"name"`
	StartDate      models.DateOnly `json:"start_date"`
	EndDate        models.DateOnly `json:"end_date"`
	Status         string          `json:"status"`
	Active         bool            `json:"active"`
	Locked         bool            `json:"locked"`
	Sequence       int             `json:"sequence"`
	Description    string          `json:"description,omitempty"`
}

// ToPeriodDTO maps an AcademicPeriod to its API shape with the lifecycle
// status derived for today. Assumes AcademicYear is preloaded when the
// year name should appear.
func ToPeriodDTO(p models.AcademicPeriod) PeriodDTO {
	name := p.Name
	if name == "" {
		name = p.DefaultName()
	}
	return PeriodDTO{
		ID:             p.ID,
		AcademicYearID: p.AcademicYearID,
		AcademicYear:   p.AcademicYear.Name,
		PeriodSystem:   p.PeriodSystem,
		PeriodNumber:   p.PeriodNumber,
		Name:           name,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Status:         p.Status(),
		Active:         p.Active,
		Locked:         p.Locked,
		Sequence:       p.Sequence,
		Description:    p.Description,
	}
}

type GradeDTO struct {
	ID               uint         `json:"id"`
	Student          StudentShort `json:"student"`
	Subject          SubjectShort `json:"subject"`
	PeriodID         uint         `json:"period_id"`
	AcademicYearID   uint         `json:"academic_year_id"`
	HomeworkPercent  float64      `json:"homework_percent"`
	ClassworkPercent float64      `json:"classwork_percent"`
	TestPercent      float64      `json:"test_percent"`
	ExamPercent      float64      `json:"exam_percent"`
	TotalScore       *float64     `json:"total_score"`
	NumericGrade     string       `json:"numeric_grade"`
	LetterGrade      string       `json:"letter_grade"`
	Locked           bool         `json:"locked"`
	Remarks          string       `json:"remarks,omitempty"`
	RecordedByID     uint         `json:"recorded_by_id,omitempty"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// ToGradeDTO maps a Grade to the compact DTO. Caller should preload
// Student and Subject.
func ToGradeDTO(g models.Grade) GradeDTO {
	return GradeDTO{
		ID:               g.ID,
		Student:          ToStudentShort(g.Student),
		Subject:          ToSubjectShort(g.Subject),
		PeriodID:         g.PeriodID,
		AcademicYearID:   g.AcademicYearID,
		HomeworkPercent:  g.HomeworkPercent,
		ClassworkPercent: g.ClassworkPercent,
		TestPercent:      g.TestPercent,
		ExamPercent:      g.ExamPercent,
		TotalScore:       g.TotalScore,
		NumericGrade:     g.NumericGrade,
		LetterGrade:      g.LetterGrade,
		Locked:           g.Locked,
		Remarks:          g.Remarks,
		RecordedByID:     g.RecordedByID,
		UpdatedAt:        g.UpdatedAt,
	}
}

func ToStudentShort(s models.Student) StudentShort {
	return StudentShort{
		ID:          s.ID,
		FullName:    s.FullName(),
		AdmissionNo: s.AdmissionNo,
		ClassLevel:  s.ClassLevel,
	}
}

func ToSubjectShort(s models.Subject) SubjectShort {
	return SubjectShort{
		ID:       s.ID,
		Name:     s.Name,
		Code:     s.Code,
		MustPass: s.MustPass,
	}
}

type ReportCardDTO struct {
	ID               uint         `json:"id"`
	Student          StudentShort `json:"student"`
	PeriodID         uint         `json:"period_id"`
	AverageScore     float64      `json:"average_score"`
	OverallGrade     string       `json:"overall_grade"`
	Position         string       `json:"position"`
	Published        bool         `json:"published"`
	PublishedAt      *time.Time   `json:"published_at,omitempty"`
	TeacherRemarks   string       `json:"teacher_remarks,omitempty"`
	PrincipalRemarks string       `json:"principal_remarks,omitempty"`
}

// ToReportCardDTO maps a ReportCard to the compact DTO. Caller should
// preload Student.
func ToReportCardDTO(r models.ReportCard) ReportCardDTO {
	return ReportCardDTO{
		ID:               r.ID,
		Student:          ToStudentShort(r.Student),
		PeriodID:         r.PeriodID,
		AverageScore:     r.AverageScore,
		OverallGrade:     r.OverallGrade,
		Position:         r.Position,
		Published:        r.Published,
		PublishedAt:      r.PublishedAt,
		TeacherRemarks:   r.TeacherRemarks,
		PrincipalRemarks: r.PrincipalRemarks,
	}
}
