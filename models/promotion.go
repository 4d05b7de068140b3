package models

import (
	"encoding/json"
	"strings"

	"gesschool_go/utils"
)

// ClassLevels in promotion order: Primary 1-6 then Junior 1-3.
var ClassLevels = []string{"P1", "P2", "P3", "P4", "P5", "P6", "J1", "J2", "J3"}

// IsValidClassLevel checks a class level code.
func IsValidClassLevel(level string) bool {
	for _, l := range ClassLevels {
		if l == level {
			return true
		}
	}
	return false
}

// NextClassLevel returns the class a student is promoted into, or "" when
// the level is the final one.
func NextClassLevel(level string) string {
	for i, l := range ClassLevels {
		if l == level && i+1 < len(ClassLevels) {
			return ClassLevels[i+1]
		}
	}
	return ""
}

// PromotionPolicy holds the institution promotion rules: per-tier pass
// marks, subjects that must always be passed, the failed-subject allowance
// and the attendance floor for conditional promotion. Single row (pk 1).
type PromotionPolicy struct {
	BaseModel
	AutoPromoteLevels    JSON    `json:"auto_promote_levels" gorm:"type:json"`
	PrimaryPassMark      float64 `json:"primary_pass_mark" gorm:"type:decimal(5,2);default:40.00"`
	JuniorPassMark       float64 `json:"junior_pass_mark" gorm:"type:decimal(5,2);default:45.00"`
	MaxFailedSubjects    int     `json:"max_failed_subjects" gorm:"default:2"`
	MinAttendancePercent float64 `json:"min_attendance_percent" gorm:"type:decimal(5,2);default:75.00"`
	MustPassSubjects     JSON    `json:"must_pass_subjects" gorm:"type:json"`
}

// DefaultPromotionPolicy returns the GES-style defaults: lower primary
// auto-promotes, English and Mathematics are compulsory passes.
func DefaultPromotionPolicy() *PromotionPolicy {
	auto, _ := json.Marshal([]string{"P1", "P2", "P3"})
	mustPass, _ := json.Marshal([]string{"English Language", "Mathematics"})
	return &PromotionPolicy{
		AutoPromoteLevels:    auto,
		PrimaryPassMark:      40,
		JuniorPassMark:       45,
		MaxFailedSubjects:    2,
		MinAttendancePercent: 75,
		MustPassSubjects:     mustPass,
	}
}

// AutoPromoteLevelList decodes the auto-promotion tier.
func (p *PromotionPolicy) AutoPromoteLevelList() []string {
	return decodeStringList(p.AutoPromoteLevels)
}

// MustPassSubjectList decodes the compulsory-pass subject names.
func (p *PromotionPolicy) MustPassSubjectList() []string {
	return decodeStringList(p.MustPassSubjects)
}

// IsAutoPromoteLevel reports whether the class level always promotes.
func (p *PromotionPolicy) IsAutoPromoteLevel(level string) bool {
	for _, l := range p.AutoPromoteLevelList() {
		if strings.EqualFold(l, level) {
			return true
		}
	}
	return false
}

// IsMustPassSubject matches a subject name case-insensitively against the
// compulsory list.
func (p *PromotionPolicy) IsMustPassSubject(name string) bool {
	for _, s := range p.MustPassSubjectList() {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// PassMarkFor returns the tier pass mark for a class level: junior levels
// use the junior mark, everything else the primary mark.
func (p *PromotionPolicy) PassMarkFor(classLevel string) float64 {
	if strings.HasPrefix(classLevel, "J") {
		return p.JuniorPassMark
	}
	return p.PrimaryPassMark
}

// Validate checks policy bounds.
func (p *PromotionPolicy) Validate() error {
	if p.PrimaryPassMark < 0 || p.PrimaryPassMark > 100 {
		return utils.NewValidationError("primary_pass_mark", "pass mark must be between 0 and 100")
	}
	if p.JuniorPassMark < 0 || p.JuniorPassMark > 100 {
		return utils.NewValidationError("junior_pass_mark", "pass mark must be between 0 and 100")
	}
	if p.MaxFailedSubjects < 0 {
		return utils.NewValidationError("max_failed_subjects", "maximum failed subjects cannot be negative")
	}
	if p.MinAttendancePercent < 0 || p.MinAttendancePercent > 100 {
		return utils.NewValidationError("min_attendance_percent", "attendance percentage must be between 0 and 100")
	}
	for _, level := range p.AutoPromoteLevelList() {
		if !IsValidClassLevel(level) {
			return utils.NewValidationError("auto_promote_levels", "unknown class level "+level)
		}
	}
	return nil
}

func decodeStringList(raw JSON) []string {
	if raw.IsNull() {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// PromotionDecision is the computed promotion outcome for one student.
// Reason is always populated, including on success.
type PromotionDecision struct {
	StudentID      uint     `json:"student_id"`
	ClassLevel     string   `json:"class_level"`
	NextClassLevel string   `json:"next_class_level,omitempty"`
	Eligible       bool     `json:"eligible"`
	Reason         string   `json:"reason"`
	FailedSubjects []string `json:"failed_subjects,omitempty"`
}
