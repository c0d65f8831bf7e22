package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"smart-attendance/internal/domain"
	"smart-attendance/internal/ports"
)

// AnalysisService backs the /ai endpoints: attendance pattern analysis is
// computed from stored records, while face recognition and the security
// scan run through the injected simulation strategy.
type AnalysisService struct {
	attendance ports.AttendanceRepository
	employees  ports.EmployeeRepository
	security   ports.SecurityEventRepository
	settings   ports.SettingsRepository
	sim        SimulationStrategy
	now        func() time.Time
}

func NewAnalysisService(
	attendance ports.AttendanceRepository,
	employees ports.EmployeeRepository,
	security ports.SecurityEventRepository,
	settings ports.SettingsRepository,
	sim SimulationStrategy,
) *AnalysisService {
	return &AnalysisService{
		attendance: attendance,
		employees:  employees,
		security:   security,
		settings:   settings,
		sim:        sim,
		now:        time.Now,
	}
}

// WithAnalysisClock overrides the time source, for tests.
func (s *AnalysisService) WithAnalysisClock(now func() time.Time) *AnalysisService {
	s.now = now
	return s
}

// AnalyzePatterns aggregates the employee's attendance over the last
// `days` days into per-day check-in/out pairs and scores punctuality
// against the configured working hours.
func (s *AnalysisService) AnalyzePatterns(ctx context.Context, employeeID string, days int) (domain.PatternAnalysis, error) {
	if employeeID == "" {
		return domain.PatternAnalysis{}, domain.ErrInvalidInput
	}
	if days <= 0 {
		days = 30
	}
	if _, err := s.employees.GetByEmployeeID(ctx, employeeID); err != nil {
		return domain.PatternAnalysis{}, err
	}

	now := s.now().UTC()
	records, err := s.attendance.List(ctx, domain.AttendanceFilter{
		EmployeeID: employeeID,
		From:       now.AddDate(0, 0, -days),
		To:         now,
		Limit:      500,
	})
	if err != nil {
		return domain.PatternAnalysis{}, err
	}

	type dayBounds struct {
		firstIn time.Time
		lastOut time.Time
	}
	byDay := map[string]*dayBounds{}
	for _, rec := range records {
		day := rec.Timestamp.Format("2006-01-02")
		bounds, ok := byDay[day]
		if !ok {
			bounds = &dayBounds{}
			byDay[day] = bounds
		}
		switch rec.EntryType {
		case domain.EntryCheckIn:
			if bounds.firstIn.IsZero() || rec.Timestamp.Before(bounds.firstIn) {
				bounds.firstIn = rec.Timestamp
			}
		case domain.EntryCheckOut:
			if rec.Timestamp.After(bounds.lastOut) {
				bounds.lastOut = rec.Timestamp
			}
		}
	}

	analysis := domain.PatternAnalysis{
		EmployeeID:       employeeID,
		AnalysisPeriod:   fmt.Sprintf("%d days", days),
		TotalDaysPresent: len(byDay),
		Recommendations:  []string{},
	}
	if len(byDay) == 0 {
		analysis.OverallRating = "insufficient_data"
		analysis.Recommendations = append(analysis.Recommendations, "no attendance recorded in the analysis period")
		return analysis, nil
	}

	startHour := float64(s.settingHour(ctx, "working_hours_start", 8))
	var inHours, outHours, dailyHours []float64
	onTime := 0
	for _, bounds := range byDay {
		if !bounds.firstIn.IsZero() {
			in := hourOfDay(bounds.firstIn)
			inHours = append(inHours, in)
			if in <= startHour+0.25 {
				onTime++
			}
		}
		if !bounds.lastOut.IsZero() {
			outHours = append(outHours, hourOfDay(bounds.lastOut))
		}
		if !bounds.firstIn.IsZero() && bounds.lastOut.After(bounds.firstIn) {
			dailyHours = append(dailyHours, bounds.lastOut.Sub(bounds.firstIn).Hours())
		}
	}

	analysis.AvgCheckInHour = round2(mean(inHours))
	analysis.AvgCheckOutHour = round2(mean(outHours))
	analysis.AvgDailyHours = round2(mean(dailyHours))
	if len(inHours) > 0 {
		analysis.PunctualityScore = round2(float64(onTime) / float64(len(inHours)))
		analysis.RegularityScore = round2(1 / (1 + stddev(inHours)))
	}

	combined := (analysis.PunctualityScore + analysis.RegularityScore) / 2
	switch {
	case combined >= 0.85:
		analysis.OverallRating = "excellent"
	case combined >= 0.65:
		analysis.OverallRating = "good"
	case combined >= 0.4:
		analysis.OverallRating = "fair"
	default:
		analysis.OverallRating = "needs_improvement"
	}
	if analysis.PunctualityScore < 0.7 {
		analysis.Recommendations = append(analysis.Recommendations, "check-in times frequently exceed the official start of the working day")
	}
	if analysis.AvgDailyHours > 0 && analysis.AvgDailyHours < 7 {
		analysis.Recommendations = append(analysis.Recommendations, "average presence is below a full working day")
	}
	if analysis.RegularityScore < 0.5 {
		analysis.Recommendations = append(analysis.Recommendations, "arrival times vary widely between days")
	}
	return analysis, nil
}

// RecognizeFace simulates one recognition attempt over the active
// employees. A match below the configured confidence threshold is
// reported as no match.
func (s *AnalysisService) RecognizeFace(ctx context.Context, imageData string) (domain.FaceMatch, error) {
	if imageData == "" {
		return domain.FaceMatch{}, domain.ErrInvalidInput
	}
	employees, err := s.employees.List(ctx)
	if err != nil {
		return domain.FaceMatch{}, err
	}
	active := employees[:0:0]
	for _, e := range employees {
		if e.IsActive {
			active = append(active, e)
		}
	}

	threshold := s.settingFloat(ctx, "ai_face_threshold", 0.85)
	candidate, ok := s.sim.SelectEmployee(active)
	if !ok {
		return domain.FaceMatch{
			Confidence: round2(s.sim.Confidence(0.2, threshold-0.05)),
			Message:    "no matching employee found",
		}, nil
	}
	confidence := round2(s.sim.Confidence(threshold-0.1, 0.99))
	if confidence < threshold {
		return domain.FaceMatch{
			Confidence: confidence,
			Message:    "confidence below recognition threshold",
		}, nil
	}
	return domain.FaceMatch{
		EmployeeID: candidate.EmployeeID,
		Name:       candidate.Name,
		Confidence: confidence,
		Message:    "employee recognized",
	}, nil
}

var severityRank = map[domain.Severity]int{
	domain.SeverityLow:      1,
	domain.SeverityMedium:   2,
	domain.SeverityHigh:     3,
	domain.SeverityCritical: 4,
}

// SecurityScan summarizes the unresolved security events into a report.
func (s *AnalysisService) SecurityScan(ctx context.Context) (domain.SecurityReport, error) {
	events, err := s.security.ListUnresolved(ctx)
	if err != nil {
		return domain.SecurityReport{}, err
	}
	sort.Slice(events, func(i, j int) bool {
		return severityRank[events[i].Severity] > severityRank[events[j].Severity]
	})

	report := domain.SecurityReport{
		Threats:         events,
		RiskLevel:       domain.SeverityLow,
		Recommendations: []string{},
	}
	for _, event := range events {
		if severityRank[event.Severity] > severityRank[report.RiskLevel] {
			report.RiskLevel = event.Severity
		}
	}
	switch report.RiskLevel {
	case domain.SeverityCritical, domain.SeverityHigh:
		report.Recommendations = append(report.Recommendations, "review and resolve the open high-severity events immediately")
	case domain.SeverityMedium:
		report.Recommendations = append(report.Recommendations, "schedule a review of the open security events")
	default:
		if len(events) == 0 {
			report.Recommendations = append(report.Recommendations, "no open security events")
		}
	}
	return report, nil
}

func (s *AnalysisService) settingFloat(ctx context.Context, key string, fallback float64) float64 {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (s *AnalysisService) settingHour(ctx context.Context, key string, fallback int) int {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return parseHour(setting.Value, fallback)
}

func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
